// Package crontab renders the generated blocks the collector keeps in the
// management account crontab.
package crontab

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Names of the generated crontab blocks.
const (
	BackupBlock       = "ivxv_backup_crontab"
	DetailStatsBlock  = "ivxv_detail_stats_crontab"
	VotingFactsBlock  = "ivxv_voting_facts_crontab"
	DefaultMinute     = "*/15"
	defaultFieldValue = "*"
)

// Schedule holds the five time fields of a crontab entry.
type Schedule struct {
	Minute  string
	Hour    string
	Day     string
	Month   string
	Weekday string
}

// WithDefaults fills empty fields: every 15 minutes, every hour, day, month
// and weekday.
func (s Schedule) WithDefaults() Schedule {
	if s.Minute == "" {
		s.Minute = DefaultMinute
	}
	for _, f := range []*string{&s.Hour, &s.Day, &s.Month, &s.Weekday} {
		if *f == "" {
			*f = defaultFieldValue
		}
	}
	return s
}

// Validate checks every field against the range crontab(5) accepts.
func (s Schedule) Validate() error {
	fields := []struct {
		name     string
		value    string
		min, max int
	}{
		{"minute", s.Minute, 0, 59},
		{"hour", s.Hour, 0, 23},
		{"day", s.Day, 1, 31},
		{"month", s.Month, 1, 12},
		{"weekday", s.Weekday, 0, 7},
	}
	var errs []error
	for _, f := range fields {
		if err := validateField(f.value, f.min, f.max); err != nil {
			errs = append(errs, fmt.Errorf("%s field: %w", f.name, err))
		}
	}
	return errors.Join(errs...)
}

func (s Schedule) String() string {
	return strings.Join([]string{s.Minute, s.Hour, s.Day, s.Month, s.Weekday}, " ")
}

// validateField accepts comma separated terms of the form *, */N, V, V-V
// and V-V/N.
func validateField(field string, minimum, maximum int) error {
	if field == "" {
		return errors.New("empty field")
	}
	for _, term := range strings.Split(field, ",") {
		if err := validateTerm(term, minimum, maximum); err != nil {
			return err
		}
	}
	return nil
}

func validateTerm(term string, minimum, maximum int) error {
	rangeExpression, stepExpression, stepped := strings.Cut(term, "/")
	if stepped {
		step, err := strconv.Atoi(stepExpression)
		if err != nil {
			return fmt.Errorf("invalid step %q: %w", stepExpression, err)
		}
		if step <= 0 {
			return fmt.Errorf("step must be positive, got %d", step)
		}
	}

	if rangeExpression == "*" {
		return nil
	}

	var start, end int
	if startStr, endStr, isRange := strings.Cut(rangeExpression, "-"); isRange {
		var err error
		if start, err = strconv.Atoi(startStr); err != nil {
			return fmt.Errorf("invalid range start %q: %w", startStr, err)
		}
		if end, err = strconv.Atoi(endStr); err != nil {
			return fmt.Errorf("invalid range end %q: %w", endStr, err)
		}
		if start > end {
			return fmt.Errorf("range start %d > end %d", start, end)
		}
	} else {
		if stepped {
			return fmt.Errorf("step needs a range or wildcard in %q", term)
		}
		value, err := strconv.Atoi(rangeExpression)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", rangeExpression, err)
		}
		start, end = value, value
	}

	if start < minimum || end > maximum {
		return fmt.Errorf("value out of range [%d-%d]: got %d-%d", minimum, maximum, start, end)
	}
	return nil
}
