package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rowset/csvexport/core"
)

var (
	errNoValidTypeAliases   = errors.New("no valid type aliases provided")
	ErrUnsupportedTypeAlias = errors.New("no adapter registered for provided type alias")
)

type (
	// Adapter opens database handles from a connection url.
	Adapter interface {
		Connect(url string) (Driver, error)
	}

	// Driver executes queries on an open database and hands out the
	// results as sources. One source per query; each source owns its
	// own read position.
	Driver interface {
		Query(ctx context.Context, query string) (core.Source, error)
		Close() error
	}
)

// registeredAdapters holds implemented adapters - specific adapters register
// themselves in their init functions. The main reason is to be able to
// compile the binary without unsupported os/arch of specific drivers.
var registeredAdapters = make(map[string]Adapter)

// register registers a new adapter under the given type aliases.
func register(adapter Adapter, aliases ...string) error {
	if len(aliases) < 1 {
		return errNoValidTypeAliases
	}

	for _, alias := range aliases {
		if alias == "" {
			continue
		}
		registeredAdapters[strings.ToLower(alias)] = adapter
	}

	return nil
}

// Connect opens a database handle using the adapter registered under
// the given type alias.
func Connect(typ, url string) (Driver, error) {
	adapter, ok := registeredAdapters[strings.ToLower(typ)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTypeAlias, typ)
	}

	return adapter.Connect(url)
}

// NewSource connects, runs one query and returns its result set as a
// source. The returned driver must be closed by the caller after the
// source is spent.
func NewSource(ctx context.Context, typ, url, query string) (core.Source, Driver, error) {
	driver, err := Connect(typ, url)
	if err != nil {
		return nil, nil, err
	}

	source, err := driver.Query(ctx, query)
	if err != nil {
		_ = driver.Close()
		return nil, nil, err
	}

	return source, driver, nil
}
