package adapters

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/rowset/csvexport/core"
	"github.com/rowset/csvexport/core/builders"
)

// Register adapter
func init() {
	_ = register(&MySQL{}, "mysql", "mariadb")
}

var _ Adapter = (*MySQL)(nil)

type MySQL struct{}

func (m *MySQL) Connect(url string) (Driver, error) {
	db, err := sql.Open("mysql", url)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mysql database: %v", err)
	}

	return &mysqlDriver{
		// mysql DATE/DATETIME scan as []byte unless parseTime is set,
		// the formatter handles the textual form either way
		c: builders.NewClient(db),
	}, nil
}

var _ Driver = (*mysqlDriver)(nil)

type mysqlDriver struct {
	c *builders.Client
}

func (d *mysqlDriver) Query(ctx context.Context, query string) (core.Source, error) {
	return d.c.Open(ctx, query)
}

func (d *mysqlDriver) Close() error {
	return d.c.Close()
}
