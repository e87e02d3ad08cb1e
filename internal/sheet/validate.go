package sheet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrMissingValue  = errors.New("missing required value")
)

// MalformedError reports input that cannot be imported: a missing column,
// a blank identifier or an unparseable value. It is fatal to an import run.
type MalformedError struct {
	Path   string
	Line   int    // 0 when the error is not tied to a row
	Column string // may list several columns separated by commas
	Err    error
}

func (e *MalformedError) Error() string {
	var b strings.Builder
	b.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " [%s]", e.Column)
	}
	fmt.Fprintf(&b, ": %s", e.Err)
	return b.String()
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// Require checks that the header contains every named column.
func (r *Reader) Require(columns ...string) error {
	var missing []string
	for _, col := range columns {
		if _, ok := r.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &MalformedError{
			Path:   r.path,
			Column: strings.Join(missing, ", "),
			Err:    ErrMissingColumn,
		}
	}
	return nil
}
