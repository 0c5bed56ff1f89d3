package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "cvtransform/internal/errors"
	"cvtransform/pkg/contracts/domain"
)

var ordinalSuffixes = map[string]bool{"st": true, "nd": true, "rd": true, "th": true}

// ParseDayHeader extracts the day of month from a header like "June 1",
// "Jun 01" or "June 1st". The month name must come first. ISO dates
// ("2025-06-01") are accepted as exported by spreadsheets. Anything else,
// such as "6/1/2025" or "Week 1", is a DateParseError.
func ParseDayHeader(header string) (day int, month time.Month, err error) {
	s := strings.TrimSpace(header)
	if t, perr := time.Parse(domain.ReportDayLayout, s); perr == nil {
		return t.Day(), t.Month(), nil
	}

	tokens := tokenRe.FindAllString(s, -1)
	if len(tokens) == 0 {
		return 0, 0, apperrors.NewDateParseError(fmt.Sprintf("empty day header %q", header))
	}
	month, ok := LookupMonth(tokens[0])
	if !ok {
		return 0, 0, apperrors.NewDateParseError(fmt.Sprintf("header %q does not start with a month name", header))
	}

	rest := tokens[1:]
	if len(rest) == 2 && ordinalSuffixes[strings.ToLower(rest[1])] {
		rest = rest[:1]
	}
	if len(rest) != 1 || len(rest[0]) > 2 || !isDigits(rest[0]) {
		return 0, month, apperrors.NewDateParseError(fmt.Sprintf("header %q is not <month> <day>", header))
	}

	day, _ = strconv.Atoi(rest[0])
	if day == 0 {
		return 0, month, apperrors.NewDateParseError(fmt.Sprintf("no day number in header %q", header))
	}
	return day, month, nil
}

// validateDay checks a parsed day against the period's month length.
func validateDay(header string, day int, period domain.PeriodContext) error {
	if day < 1 || day > period.DaysInMonth() {
		return apperrors.NewDateParseError(fmt.Sprintf("header %q: day %d is outside %s (%d days)",
			header, day, period, period.DaysInMonth()))
	}
	return nil
}
