package core

import (
	"errors"
	"fmt"
)

const (
	DefaultSeparator  = ','
	DefaultDateFormat = "MM/DD/YYYY"
	DefaultBatchSize  = 100
)

var (
	ErrAlreadyFetching  = errors.New("configuration is immutable once fetching has begun")
	ErrInvalidSeparator = errors.New("separator must be a single character other than quote, CR or LF")
	ErrInvalidBatchSize = errors.New("batch size must be a positive integer")
)

// config holds the conversion settings. Values are fixed once the
// first batch has been fetched.
type config struct {
	separator       rune
	numberFormat    string
	dateFormat      string
	quoteAllStrings bool
	batchSize       int
}

func defaultConfig() *config {
	return &config{
		separator:  DefaultSeparator,
		dateFormat: DefaultDateFormat,
		batchSize:  DefaultBatchSize,
	}
}

type Option func(*config) error

func WithSeparator(sep rune) Option {
	return func(c *config) error {
		if err := validateSeparator(sep); err != nil {
			return err
		}
		c.separator = sep
		return nil
	}
}

// WithNumberFormat sets the picture pattern applied to numeric fields,
// for example "#,##0.00". An empty pattern keeps the trimmed canonical
// representation.
func WithNumberFormat(pattern string) Option {
	return func(c *config) error {
		c.numberFormat = pattern
		return nil
	}
}

// WithDateFormat sets the pattern applied to temporal fields, using
// the tokens YYYY, YY, MM, DD, HH, MI, SS and AM.
func WithDateFormat(pattern string) Option {
	return func(c *config) error {
		if _, err := compileDateLayout(pattern); err != nil {
			return err
		}
		c.dateFormat = pattern
		return nil
	}
}

// WithQuoteAllStrings forces quoting of every text-kind field, even
// when its content would not require it. Numeric and temporal fields
// are exempt.
func WithQuoteAllStrings(quote bool) Option {
	return func(c *config) error {
		c.quoteAllStrings = quote
		return nil
	}
}

// WithBatchSize sets how many rows a single bulk fetch retrieves from
// the source. Larger batches trade memory for fewer round trips.
func WithBatchSize(size int) Option {
	return func(c *config) error {
		if size < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidBatchSize, size)
		}
		c.batchSize = size
		return nil
	}
}

func validateSeparator(sep rune) error {
	if sep == quoteChar || sep == '\r' || sep == '\n' {
		return fmt.Errorf("%w: %q", ErrInvalidSeparator, sep)
	}
	return nil
}
