package dataprocessing

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "cvtransform/internal/errors"
	"cvtransform/pkg/contracts/domain"
)

// tokenRe splits names and headers into letter runs and digit runs.
// "Marketing_Growth 360 Report - 2025 - June 2025" yields
// Marketing, Growth, 360, Report, 2025, June, 2025.
var tokenRe = regexp.MustCompile(`[A-Za-z]+|[0-9]+`)

// monthNames holds full month names, three-letter abbreviations and "sept".
var monthNames = func() map[string]time.Month {
	names := map[string]time.Month{"sept": time.September}
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		names[full] = m
		names[full[:3]] = m
	}
	return names
}()

// LookupMonth matches a single token against month names and abbreviations, ignoring case.
func LookupMonth(token string) (time.Month, bool) {
	m, ok := monthNames[strings.ToLower(token)]
	return m, ok
}

func isYearToken(token string) bool {
	return len(token) == 4 && token[0] != '0' && isDigits(token)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// periodHints holds the month and year found in a name, zero when absent
type periodHints struct {
	month time.Month
	year  int
}

// scanName collects month and year tokens from a file name. The last month
// immediately followed by a year wins; otherwise the last of each is used.
func scanName(name string) periodHints {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	tokens := tokenRe.FindAllString(base, -1)

	var hints, paired periodHints
	for i, tok := range tokens {
		if isYearToken(tok) {
			hints.year, _ = strconv.Atoi(tok)
			continue
		}
		m, ok := LookupMonth(tok)
		if !ok {
			continue
		}
		hints.month = m
		if i+1 < len(tokens) && isYearToken(tokens[i+1]) {
			paired.month = m
			paired.year, _ = strconv.Atoi(tokens[i+1])
		}
	}

	if paired.month != 0 {
		return paired
	}
	return hints
}

// ResolvePeriod derives the reporting month and year from a file name such as
// "Ghana - Marketing_Growth 360 Report - 2025 - June 2025 Overview.csv".
func ResolvePeriod(filename string) (domain.PeriodContext, error) {
	hints := scanName(filename)
	if err := hints.check(filename); err != nil {
		return domain.PeriodContext{}, err
	}
	return domain.PeriodContext{Month: hints.month, Year: hints.year}, nil
}

func (h periodHints) check(filename string) error {
	switch {
	case h.month == 0 && h.year == 0:
		return apperrors.NewContextResolutionError(fmt.Sprintf("no month or year in name %q", filename))
	case h.month == 0:
		return apperrors.NewContextResolutionError(fmt.Sprintf("no month in name %q", filename))
	case h.year == 0:
		return apperrors.NewContextResolutionError(fmt.Sprintf("no 4-digit year in name %q", filename))
	}
	return nil
}

// resolvePeriodWithHeaders is ResolvePeriod with a fallback for names that carry
// a year but no month: the month is then taken from the day headers, which must agree.
func resolvePeriodWithHeaders(filename string, headers []string) (domain.PeriodContext, error) {
	hints := scanName(filename)
	if hints.month == 0 && hints.year != 0 {
		m, err := monthFromHeaders(headers)
		if err != nil {
			return domain.PeriodContext{}, err
		}
		if m != 0 {
			hints.month = m
		}
	}
	if err := hints.check(filename); err != nil {
		return domain.PeriodContext{}, err
	}
	return domain.PeriodContext{Month: hints.month, Year: hints.year}, nil
}

func monthFromHeaders(headers []string) (time.Month, error) {
	var found time.Month
	for _, h := range headers {
		_, m, err := ParseDayHeader(h)
		if err != nil || m == 0 {
			continue
		}
		if found != 0 && m != found {
			return 0, apperrors.NewContextResolutionError(
				fmt.Sprintf("day headers name both %s and %s", found, m))
		}
		found = m
	}
	return found, nil
}
