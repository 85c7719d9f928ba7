package mock

import (
	"fmt"

	"github.com/rowset/csvexport/core"
	"github.com/rowset/csvexport/core/builders"
)

var _ core.Source = (*Source)(nil)

// Source is a mocked core.Source over in-memory rows. It counts fetch
// calls so tests can assert batching behavior.
type Source struct {
	fetch  func(n int) ([]core.Row, error)
	config *sourceConfig

	fetchCalls int
	closed     bool
}

func makeDefaultColumns(rows []core.Row) []*core.Column {
	var names []string
	if len(rows) > 0 {
		for i := range rows[0] {
			names = append(names, fmt.Sprintf("header_%d", i))
		}
	}
	return builders.TextColumns(names...)
}

// NewSource returns a mocked source with the provided rows. Unless
// overridden, columns are text-kind and named header_0, header_1, ...
// after the width of the first row.
func NewSource(rows []core.Row, opts ...SourceOption) *Source {
	config := &sourceConfig{
		columns: makeDefaultColumns(rows),
	}
	for _, opt := range opts {
		opt(config)
	}

	return &Source{
		fetch:  builders.FetchSlice(rows),
		config: config,
	}
}

func (s *Source) Columns() ([]*core.Column, error) {
	if s.config.columnsErr != nil {
		return nil, s.config.columnsErr
	}
	return s.config.columns, nil
}

func (s *Source) Fetch(n int) ([]core.Row, error) {
	s.fetchCalls++
	if s.config.failOnFetch > 0 && s.fetchCalls >= s.config.failOnFetch {
		return nil, s.config.fetchErr
	}
	return s.fetch(n)
}

func (s *Source) Close() {
	s.closed = true
}

// FetchCalls reports how many times Fetch was invoked.
func (s *Source) FetchCalls() int { return s.fetchCalls }

// Closed reports whether the source was closed.
func (s *Source) Closed() bool { return s.closed }

// NewRows returns rows in form of:
//
//	{ <index>(int), "row_<index>"(string) }
//
// where the first index is "from" and the last one is one less than "to".
func NewRows(from, to int) []core.Row {
	var rows []core.Row

	for i := from; i < to; i++ {
		rows = append(rows, core.Row{i, fmt.Sprintf("row_%d", i)})
	}
	return rows
}
