package adapters

import (
	"context"
	"database/sql"
	"fmt"
	nurl "net/url"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/rowset/csvexport/core"
	"github.com/rowset/csvexport/core/builders"
)

// Register adapter
func init() {
	_ = register(&SQLServer{}, "sqlserver", "mssql")
}

var _ Adapter = (*SQLServer)(nil)

type SQLServer struct{}

func (s *SQLServer) Connect(url string) (Driver, error) {
	u, err := nurl.Parse(url)
	if err != nil {
		return nil, fmt.Errorf("could not parse db connection string: %w", err)
	}

	db, err := sql.Open("sqlserver", u.String())
	if err != nil {
		return nil, fmt.Errorf("unable to connect to sqlserver database: %v", err)
	}

	return &sqlserverDriver{
		c: builders.NewClient(db),
	}, nil
}

var _ Driver = (*sqlserverDriver)(nil)

type sqlserverDriver struct {
	c *builders.Client
}

func (d *sqlserverDriver) Query(ctx context.Context, query string) (core.Source, error) {
	return d.c.Open(ctx, query)
}

func (d *sqlserverDriver) Close() error {
	return d.c.Close()
}
