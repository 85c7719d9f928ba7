package builders

import "github.com/rowset/csvexport/core"

// FetchSlice creates a batched fetch function over in-memory rows.
// Each call hands out the next batch of up to n rows until the slice
// is spent.
func FetchSlice(rows []core.Row) func(n int) ([]core.Row, error) {
	index := 0

	return func(n int) ([]core.Row, error) {
		if index >= len(rows) {
			return nil, nil
		}

		end := index + n
		if end > len(rows) {
			end = len(rows)
		}

		batch := rows[index:end]
		index = end
		return batch, nil
	}
}

// FetchNil creates a fetch function that is already drained.
func FetchNil() func(n int) ([]core.Row, error) {
	return func(int) ([]core.Row, error) {
		return nil, nil
	}
}
