package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gyeh/ehrload/internal/model"
)

// Age combines a year count and a month count into a whole-month age.
// A blank field counts as zero; when both are blank the age is unknown and
// nil is returned. Values must be non-negative whole numbers ("60" and "60.0"
// are both accepted).
func Age(years, months string) (*model.Age, error) {
	y, hasYears, err := wholeNumber(years)
	if err != nil {
		return nil, fmt.Errorf("age years: %w", err)
	}
	m, hasMonths, err := wholeNumber(months)
	if err != nil {
		return nil, fmt.Errorf("age months: %w", err)
	}
	if !hasYears && !hasMonths {
		return nil, nil
	}

	total := y*12 + m
	if total > math.MaxInt32 {
		return nil, fmt.Errorf("age out of range: %d years %d months", y, m)
	}
	a := model.Age(total)
	return &a, nil
}

func wholeNumber(s string) (int64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("not a number: %q", s)
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false, fmt.Errorf("not a non-negative whole number: %q", s)
	}
	return int64(f), true, nil
}
