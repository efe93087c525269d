package docpipe

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Collect returns a Deferred draining src into a single ordered sequence.
//
// The source is read sequentially, to exhaustion, exactly once, when the
// Deferred is first awaited. A fetch failure fails the whole sequence with a
// *StageError of kind ErrFetch; no partial sequence is exposed and nothing is
// retried. A read interrupted by the end of ctx is not a fetch failure: the
// context's error is returned and the next await resumes reading where the
// interrupted one stopped.
func Collect(src RecordSource) *Deferred[[]Record] {
	return collect(src, zap.NewNop(), nil)
}

func collect(src RecordSource, log *zap.Logger, m *Metrics) *Deferred[[]Record] {
	// records read before an interrupted attempt are kept; the next attempt
	// resumes from the source's current position
	var records []Record
	return Defer(func(ctx context.Context) ([]Record, error) {
		m.computed(RawRecords)

		for {
			r, err := src.Next(ctx)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil && interrupted(ctx, err) {
				log.Debug("record fetch interrupted", zap.Int("index", len(records)), zap.Error(err))
				return nil, errors.Wrapf(err, "record %d", len(records))
			}
			if err != nil {
				m.failed(RawRecords)
				log.Debug("record fetch failed", zap.Int("index", len(records)), zap.Error(err))
				return nil, &StageError{
					Stage: RawRecords,
					Kind:  ErrFetch,
					Err:   errors.Wrapf(err, "record %d", len(records)),
				}
			}
			records = append(records, r)
		}

		m.collected(len(records))
		log.Debug("records collected", zap.Int("count", len(records)))
		return records, nil
	})
}
