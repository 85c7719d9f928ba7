//go:build (darwin && (amd64 || arm64)) || (freebsd && (386 || amd64 || arm || arm64)) || (linux && (386 || amd64 || arm || arm64 || ppc64le || riscv64 || s390x)) || (netbsd && amd64) || (openbsd && (amd64 || arm64)) || (windows && (amd64 || arm64))

package adapters

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/rowset/csvexport/core"
	"github.com/rowset/csvexport/core/builders"
)

// Register adapter
func init() {
	_ = register(&SQLite{}, "sqlite", "sqlite3")
}

var _ Adapter = (*SQLite)(nil)

type SQLite struct{}

func (s *SQLite) Connect(url string) (Driver, error) {
	db, err := sql.Open("sqlite", url)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to sqlite database: %v", err)
	}

	return &sqliteDriver{
		c: builders.NewClient(db),
	}, nil
}

var _ Driver = (*sqliteDriver)(nil)

type sqliteDriver struct {
	c *builders.Client
}

func (d *sqliteDriver) Query(ctx context.Context, query string) (core.Source, error) {
	return d.c.Open(ctx, query)
}

func (d *sqliteDriver) Close() error {
	return d.c.Close()
}
