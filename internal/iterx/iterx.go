package iterx

import (
	"fmt"
	"iter"
)

// ItemError reports the value that made a TryMap function fail and its
// position in the input sequence.
type ItemError struct {
	Index  int
	Item   any
	Reason error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Reason)
}

func (e *ItemError) Unwrap() error {
	return e.Reason
}

func FromSlice[T any](in []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range in {
			if !yield(item) {
				break
			}
		}
	}
}

// TryMap applies fn to every value of seq, in order, and collects the results.
//
// Unlike a streaming map, TryMap stops at the first failure: no further
// values are pulled from seq and the partial output is discarded.
func TryMap[In, Out any](seq iter.Seq[In], fn func(In) (Out, error)) ([]Out, error) {
	var out []Out
	i := 0
	for in := range seq {
		result, err := fn(in)
		if err != nil {
			return nil, &ItemError{Index: i, Item: in, Reason: err}
		}
		out = append(out, result)
		i++
	}
	return out, nil
}
