package mock

import "github.com/rowset/csvexport/core"

type sourceConfig struct {
	columns    []*core.Column
	columnsErr error

	failOnFetch int
	fetchErr    error
}

type SourceOption func(*sourceConfig)

func SourceWithColumns(columns []*core.Column) SourceOption {
	return func(c *sourceConfig) {
		c.columns = columns
	}
}

// SourceWithColumnsError makes metadata introspection fail.
func SourceWithColumnsError(err error) SourceOption {
	return func(c *sourceConfig) {
		c.columnsErr = err
	}
}

// SourceWithFetchError makes the call-th Fetch (1-based) and every
// later one return err.
func SourceWithFetchError(call int, err error) SourceOption {
	return func(c *sourceConfig) {
		c.failOnFetch = call
		c.fetchErr = err
	}
}
