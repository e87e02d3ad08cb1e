package normalize

import (
	"strings"
)

// Discard marks a value that failed a parsing rule; rows carrying it are
// dropped before any warehouse write.
const Discard = "DISCARD"

const (
	stdPrefix      = "STD"
	scoreTypeValue = "value"
)

// ValueName extracts the concept label from a TEST_VALUE_NAME of the form
// "STD.Label: value". The label is trimmed and its spaces replaced with
// underscores. Any other prefix or score type, or a missing delimiter,
// returns (Discard, false).
func ValueName(s string) (string, bool) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 || parts[0] != stdPrefix {
		return Discard, false
	}
	label, _, _ := strings.Cut(parts[1], ":")

	_, rest, ok := strings.Cut(s, ":")
	if !ok {
		return Discard, false
	}
	scoreType, _, _ := strings.Cut(rest, ":")
	if strings.TrimSpace(scoreType) != scoreTypeValue {
		return Discard, false
	}

	name := underscore(label)
	if name == "" {
		return Discard, false
	}
	return name, true
}

// ValueCode extracts the concept short name from a TEST_VALUE_CODE of the
// form "CODE : value". Score types other than "value" return (Discard, false).
func ValueCode(s string) (string, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || strings.TrimSpace(parts[1]) != scoreTypeValue {
		return Discard, false
	}
	code := underscore(parts[0])
	if code == "" {
		return Discard, false
	}
	return code, true
}

// LabCode returns the segment of an LVALUE_CODE after its first colon.
// Lab codes have no discard rule: a value without a colon is returned as-is.
func LabCode(s string) string {
	_, after, ok := strings.Cut(s, ":")
	if !ok {
		return strings.TrimSpace(s)
	}
	seg, _, _ := strings.Cut(after, ":")
	return strings.TrimSpace(seg)
}

func underscore(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
}
