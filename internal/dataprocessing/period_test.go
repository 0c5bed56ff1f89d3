package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cvtransform/internal/errors"
)

func TestResolvePeriod(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantMonth   time.Month
		wantYear    int
		wantErr     bool
		description string
	}{
		{
			name:        "export naming",
			filename:    "Ghana - Marketing_Growth 360 Report - 2025 - June 2025 Overview.csv",
			wantMonth:   time.June,
			wantYear:    2025,
			description: "month followed by year wins over the leading year",
		},
		{
			name:        "abbreviation",
			filename:    "Report - 2024 - Feb 2024.csv",
			wantMonth:   time.February,
			wantYear:    2024,
			description: "three-letter month names are recognized",
		},
		{
			name:        "sept",
			filename:    "sept 2023 summary.csv",
			wantMonth:   time.September,
			wantYear:    2023,
			description: "lowercase and the four-letter September abbreviation",
		},
		{
			name:        "month without adjacent year",
			filename:    "Overview 2025 - MARCH.csv",
			wantMonth:   time.March,
			wantYear:    2025,
			description: "last month and last year are combined when no pair exists",
		},
		{
			name:        "last pair wins",
			filename:    "2024 - May 2025 - January.csv",
			wantMonth:   time.May,
			wantYear:    2025,
			description: "a month directly followed by a year beats a later lone month",
		},
		{
			name:        "sheet naming",
			filename:    "Growth Report 2025 - June.xlsx",
			wantMonth:   time.June,
			wantYear:    2025,
			description: "workbook inputs carry the month in the sheet part",
		},
		{
			name:        "word containing a month",
			filename:    "Marketing Overview.csv",
			wantErr:     true,
			description: "month names only match whole tokens",
		},
		{
			name:        "no year",
			filename:    "June Overview.csv",
			wantErr:     true,
			description: "a month alone is not enough",
		},
		{
			name:        "no month",
			filename:    "2025 Overview.csv",
			wantErr:     true,
			description: "a year alone is not enough",
		},
		{
			name:        "short number is not a year",
			filename:    "June 360 Report.csv",
			wantErr:     true,
			description: "years need four digits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period, err := ResolvePeriod(tt.filename)
			if tt.wantErr {
				require.Error(t, err, tt.description)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeContextResolution), tt.description)
				return
			}
			require.NoError(t, err, tt.description)
			assert.Equal(t, tt.wantMonth, period.Month, tt.description)
			assert.Equal(t, tt.wantYear, period.Year, tt.description)
		})
	}
}

func TestResolvePeriodWithHeaders(t *testing.T) {
	t.Run("month from headers", func(t *testing.T) {
		period, err := resolvePeriodWithHeaders("Growth Report 2025.csv", []string{"June 1", "June 2"})
		require.NoError(t, err)
		assert.Equal(t, time.June, period.Month)
		assert.Equal(t, 2025, period.Year)
	})

	t.Run("file month is kept", func(t *testing.T) {
		period, err := resolvePeriodWithHeaders("June 2025.csv", []string{"July 1"})
		require.NoError(t, err)
		assert.Equal(t, time.June, period.Month)
	})

	t.Run("headers disagree", func(t *testing.T) {
		_, err := resolvePeriodWithHeaders("Growth Report 2025.csv", []string{"June 30", "July 1"})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeContextResolution))
	})

	t.Run("headers without month", func(t *testing.T) {
		_, err := resolvePeriodWithHeaders("Growth Report 2025.csv", []string{"1", "2"})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeContextResolution))
	})

	t.Run("no year is not recovered", func(t *testing.T) {
		_, err := resolvePeriodWithHeaders("Growth Report.csv", []string{"June 1"})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeContextResolution))
	})
}

func TestParseDayHeader(t *testing.T) {
	tests := []struct {
		header    string
		wantDay   int
		wantMonth time.Month
		wantErr   bool
	}{
		{header: "June 1", wantDay: 1, wantMonth: time.June},
		{header: "Jun 01", wantDay: 1, wantMonth: time.June},
		{header: "  February 29 ", wantDay: 29, wantMonth: time.February},
		{header: "June 1st", wantDay: 1, wantMonth: time.June},
		{header: "2025-06-03", wantDay: 3, wantMonth: time.June},
		{header: "June", wantMonth: time.June, wantErr: true},
		{header: "June 00", wantErr: true},
		{header: "Total", wantErr: true},
		{header: "15", wantErr: true},
		{header: "6/1/2025", wantErr: true},
		{header: "Week 1", wantErr: true},
		{header: "June 1 2025", wantErr: true},
		{header: "June 123", wantErr: true},
		{header: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			day, month, err := ParseDayHeader(tt.header)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeDateParse))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDay, day)
			assert.Equal(t, tt.wantMonth, month)
		})
	}
}

func TestStandardizeName(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"New Installs", "new_installs"},
		{"new-installs", "new_installs"},
		{"  CAC (incl. Branding) ", "cac_incl_branding"},
		{"FS/First Disb", "fs_first_disb"},
		{"Cost offline ", "cost_offline"},
		{"Signup__First", "signup_first"},
		{"report_day", "report_day"},
		{"%", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := StandardizeName(tt.label)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, StandardizeName(got), "standardizing twice must not change the name")
		})
	}
}

func TestAliasTable(t *testing.T) {
	aliases := newAliasTable(map[string]string{"Cost Growth": "Cost Digital"})

	assert.Equal(t, "Cost Digital", aliases.resolve("Cost Growth"))
	assert.Equal(t, "Cost Digital", aliases.resolve(" cost growth "))
	assert.Equal(t, "Cost Marketing", aliases.resolve("Cost Marketing"))
}
