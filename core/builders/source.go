package builders

import (
	"sync"

	"github.com/rowset/csvexport/core"
)

var _ core.Source = (*Source)(nil)

// Source fills the core.Source interface from plain functions. Used by
// adapters that are not backed by database/sql and by tests.
type Source struct {
	fetch    func(n int) ([]core.Row, error)
	columns  []*core.Column
	close    func()
	callback func()
	once     sync.Once
}

func (s *Source) Columns() ([]*core.Column, error) {
	return s.columns, nil
}

func (s *Source) Fetch(n int) ([]core.Row, error) {
	return s.fetch(n)
}

// SetCallback registers a function invoked once on close.
func (s *Source) SetCallback(callback func()) {
	s.callback = callback
}

func (s *Source) Close() {
	s.close()
	if s.callback != nil {
		s.once.Do(s.callback)
	}
	s.fetch = FetchNil()
}

// SourceBuilder builds a Source piece by piece.
type SourceBuilder struct {
	fetch   func(n int) ([]core.Row, error)
	columns []*core.Column
	close   func()
}

func NewSourceBuilder() *SourceBuilder {
	return &SourceBuilder{
		fetch:   FetchNil(),
		columns: []*core.Column{},
		close:   func() {},
	}
}

func (b *SourceBuilder) WithFetchFunc(fn func(n int) ([]core.Row, error)) *SourceBuilder {
	b.fetch = fn
	return b
}

func (b *SourceBuilder) WithColumns(columns []*core.Column) *SourceBuilder {
	b.columns = columns
	return b
}

func (b *SourceBuilder) WithCloseFunc(fn func()) *SourceBuilder {
	b.close = fn
	return b
}

func (b *SourceBuilder) Build() *Source {
	return &Source{
		fetch:   b.fetch,
		columns: b.columns,
		close:   b.close,
		once:    sync.Once{},
	}
}
