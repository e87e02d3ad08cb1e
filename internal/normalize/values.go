package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/gyeh/ehrload/internal/model"
)

// Classify returns Numeric if raw parses as a finite floating-point number,
// Text otherwise.
func Classify(raw string) model.ValueType {
	if _, ok := parseNumber(raw); ok {
		return model.Numeric
	}
	return model.Text
}

// Value builds the observation value for raw: numbers are stored as
// tval_char "E" plus nval_num, everything else verbatim as text.
func Value(raw string) model.ObservationValue {
	if f, ok := parseNumber(raw); ok {
		return model.ObservationValue{Type: model.Numeric, Text: model.EncodedNumeric, Number: &f}
	}
	return TextValue(raw)
}

// TextValue builds a text observation value without attempting classification.
func TextValue(raw string) model.ObservationValue {
	return model.ObservationValue{Type: model.Text, Text: raw}
}

// NaN and infinities parse but cannot be stored in nval_num.
func parseNumber(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
