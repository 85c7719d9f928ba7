package builders

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rowset/csvexport/core"
)

// Client wraps a database/sql handle and opens query results as
// core.Source values. It is the shared plumbing behind the specific
// database adapters.
type Client struct {
	db             *sql.DB
	typeProcessors map[string]func(any) any
}

func NewClient(db *sql.DB, opts ...ClientOption) *Client {
	config := clientConfig{
		typeProcessors: make(map[string]func(any) any),
	}
	for _, opt := range opts {
		opt(&config)
	}

	return &Client{
		db:             db,
		typeProcessors: config.typeProcessors,
	}
}

func (c *Client) Close() error {
	return c.db.Close()
}

// Open executes a query on a dedicated connection and returns the
// result as a source. The source owns the connection; closing the
// source releases it.
func (c *Client) Open(ctx context.Context, query string, args ...any) (*RowsSource, error) {
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("executing query: %w", err)
	}

	columns, err := ColumnsFromRows(rows)
	if err != nil {
		_ = rows.Close()
		_ = conn.Close()
		return nil, err
	}

	return &RowsSource{
		rows:       rows,
		conn:       conn,
		columns:    columns,
		processors: c.processorsFor(columns),
	}, nil
}

// processorsFor resolves one value processor per column, keyed by the
// native type name. The default processor converts []byte to string,
// which is how most drivers hand back text.
func (c *Client) processorsFor(columns []*core.Column) []func(any) any {
	procs := make([]func(any) any, len(columns))
	for i, col := range columns {
		if proc, ok := c.typeProcessors[strings.ToLower(col.DatabaseType)]; ok {
			procs[i] = proc
			continue
		}
		procs[i] = defaultProcessor
	}
	return procs
}

func defaultProcessor(val any) any {
	if b, ok := val.([]byte); ok {
		return string(b)
	}
	return val
}

var _ core.Source = (*RowsSource)(nil)

// RowsSource adapts *sql.Rows to the batched core.Source contract.
// Forward-only, single owner.
type RowsSource struct {
	rows       *sql.Rows
	conn       *sql.Conn
	columns    []*core.Column
	processors []func(any) any
	drained    bool
}

func (s *RowsSource) Columns() ([]*core.Column, error) {
	return s.columns, nil
}

// Fetch scans up to n rows. Returning fewer than n rows is only
// possible on the final batch; an empty result means drained.
func (s *RowsSource) Fetch(n int) ([]core.Row, error) {
	if s.drained {
		return nil, nil
	}

	out := make([]core.Row, 0, n)
	for len(out) < n {
		if !s.rows.Next() {
			if err := s.rows.Err(); err != nil {
				return nil, fmt.Errorf("rows.Next: %w", err)
			}
			s.drained = true
			break
		}

		row, err := s.scanRow()
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	return out, nil
}

func (s *RowsSource) scanRow() (core.Row, error) {
	values := make([]any, len(s.columns))
	pointers := make([]any, len(s.columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	if err := s.rows.Scan(pointers...); err != nil {
		return nil, fmt.Errorf("rows.Scan: %w", err)
	}

	row := make(core.Row, len(values))
	for i, val := range values {
		if val == nil {
			continue
		}
		row[i] = s.processors[i](val)
	}

	return row, nil
}

func (s *RowsSource) Close() {
	_ = s.rows.Close()
	if s.conn != nil {
		_ = s.conn.Close()
	}
}
