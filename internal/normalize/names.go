package normalize

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(` +`)

// CollapseSpace collapses runs of spaces to a single space. Other whitespace
// and the ends of s are left as they are.
func CollapseSpace(s string) string {
	return multiSpace.ReplaceAllString(s, " ")
}

// LabName returns the segment of an LVALUE_NAME after its first dot, with
// runs of spaces collapsed. Like LabCode it never discards: a value without
// a dot is returned whole.
func LabName(s string) string {
	_, after, ok := strings.Cut(s, ".")
	if !ok {
		return CollapseSpace(s)
	}
	seg, _, _ := strings.Cut(after, ".")
	return CollapseSpace(seg)
}
