package sheet

import (
	"io"
	"iter"
)

// Rows returns a lazy sequence of decoded rows from the file at path. The
// header must contain every column in columns. Iteration stops after the
// first error, which is yielded with a zero row. Each range over the
// sequence reopens the file, so it can be consumed more than once.
func Rows[T any](path string, columns []string, decode func(Record) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		r, err := Open(path)
		if err != nil {
			yield(zero, err)
			return
		}
		defer r.Close()

		if err := r.Require(columns...); err != nil {
			yield(zero, err)
			return
		}

		for {
			rec, err := r.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(zero, err)
				return
			}
			row, err := decode(rec)
			if err != nil {
				yield(zero, err)
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// Filter drops rows for which keep returns false. Errors pass through.
func Filter[T any](seq iter.Seq2[T, error], keep func(T) bool) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for row, err := range seq {
			if err != nil {
				yield(row, err)
				return
			}
			if !keep(row) {
				continue
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// Raw is the identity decoder, for callers that filter records before
// decoding them.
func Raw(rec Record) (Record, error) {
	return rec, nil
}
