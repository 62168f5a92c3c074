package wallet

import "context"

// DefaultListLimit is applied when a list call passes a non-positive
// limit.
const DefaultListLimit = 10

// ListOptions parameterizes the list operations (transfer history,
// deposit address listing). Zero values mean: all directions, default
// limit, no skip.
type ListOptions struct {
	Direction Direction
	Limit     int
	Skip      int
}

// normalize fills defaults so the pagination loop always has a positive
// batch size and therefore a guaranteed termination condition.
func (o ListOptions) normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Skip < 0 {
		o.Skip = 0
	}
	if o.Direction == "" {
		o.Direction = DirectionAll
	}
	return o
}

// matches applies the client-side direction filter.
func (o ListOptions) matches(d Direction) bool {
	return o.Direction == DirectionAll || o.Direction == d
}

// paginate implements the shared list contract: fetch batches of
// limit+skip items at increasing offsets, filter client-side in source
// order, and stop on the first empty batch or once enough filtered
// items have accumulated. The final result is the [skip, skip+limit)
// window of the filtered sequence.
func paginate[T any](
	ctx context.Context,
	opts ListOptions,
	fetch func(ctx context.Context, limit, offset int) ([]T, error),
	match func(T) bool,
) ([]T, error) {
	opts = opts.normalize()
	batchSize := opts.Limit + opts.Skip
	want := opts.Skip + opts.Limit

	var filtered []T
	offset := 0
	for {
		batch, err := fetch(ctx, batchSize, offset)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		for _, item := range batch {
			if match(item) {
				filtered = append(filtered, item)
			}
		}
		if len(filtered) >= want {
			break
		}
		// Advance by what was actually returned so a short batch never
		// skips items.
		offset += len(batch)
	}

	if len(filtered) <= opts.Skip {
		return []T{}, nil
	}
	end := opts.Skip + opts.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[opts.Skip:end], nil
}
