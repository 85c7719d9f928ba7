package adapters

import (
	"context"
	"database/sql"
	"fmt"
	nurl "net/url"

	_ "github.com/lib/pq"

	"github.com/rowset/csvexport/core"
	"github.com/rowset/csvexport/core/builders"
)

// Register adapter
func init() {
	_ = register(&Postgres{}, "postgres", "postgresql", "pg")
}

var _ Adapter = (*Postgres)(nil)

type Postgres struct{}

func (p *Postgres) Connect(url string) (Driver, error) {
	u, err := nurl.Parse(url)
	if err != nil {
		return nil, fmt.Errorf("could not parse db connection string: %w", err)
	}

	db, err := sql.Open("postgres", u.String())
	if err != nil {
		return nil, fmt.Errorf("unable to connect to postgres database: %v", err)
	}

	return &postgresDriver{
		c: builders.NewClient(db),
	}, nil
}

var _ Driver = (*postgresDriver)(nil)

type postgresDriver struct {
	c *builders.Client
}

func (d *postgresDriver) Query(ctx context.Context, query string) (core.Source, error) {
	return d.c.Open(ctx, query)
}

func (d *postgresDriver) Close() error {
	return d.c.Close()
}
