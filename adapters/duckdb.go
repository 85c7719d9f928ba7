//go:build cgo && ((darwin && (amd64 || arm64)) || (linux && (amd64 || arm64 || riscv64)))

package adapters

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/rowset/csvexport/core"
	"github.com/rowset/csvexport/core/builders"
)

// Register adapter
func init() {
	_ = register(&Duck{}, "duck", "duckdb")
}

var _ Adapter = (*Duck)(nil)

type Duck struct{}

func (d *Duck) Connect(url string) (Driver, error) {
	db, err := sql.Open("duckdb", url)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to duckdb database: %v", err)
	}

	return &duckDriver{
		c: builders.NewClient(db),
	}, nil
}

var _ Driver = (*duckDriver)(nil)

type duckDriver struct {
	c *builders.Client
}

func (d *duckDriver) Query(ctx context.Context, query string) (core.Source, error) {
	return d.c.Open(ctx, query)
}

func (d *duckDriver) Close() error {
	return d.c.Close()
}
