package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type CursorState int

const (
	CursorOpen CursorState = iota
	CursorExhausted
)

func (s CursorState) String() string {
	switch s {
	case CursorOpen:
		return "open"
	case CursorExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

var (
	ErrNilSource = errors.New("source is nil")
	ErrNoColumns = errors.New("source reported no columns")
)

type ConversionID string

// Converter turns a source result set into CSV rows, one pull at a
// time. It owns the source exclusively, fetches in batches and is
// forward-only: once the source is drained the converter is exhausted
// for good, there is no restart.
//
// A Converter must not be shared between concurrent callers.
type Converter struct {
	id ConversionID

	source    Source
	columns   []*Column
	kinds     []TypeKind
	cfg       *config
	formatter *fieldFormatter

	buffer   []Row
	state    CursorState
	rowCount int
	started  bool
}

// NewConverter captures the source column metadata and compiles the
// configured format patterns. Metadata and pattern problems surface
// here, before any row is fetched.
func NewConverter(source Source, opts ...Option) (*Converter, error) {
	if source == nil {
		return nil, ErrNilSource
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	columns, err := source.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading source metadata: %w", err)
	}
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	formatter, err := newFieldFormatter(cfg)
	if err != nil {
		return nil, err
	}

	kinds := make([]TypeKind, len(columns))
	for i, col := range columns {
		kinds[i] = col.Kind
	}

	return &Converter{
		id:        ConversionID(uuid.New().String()),
		source:    source,
		columns:   columns,
		kinds:     kinds,
		cfg:       cfg,
		formatter: formatter,
		state:     CursorOpen,
	}, nil
}

func (c *Converter) ID() ConversionID { return c.id }

func (c *Converter) State() CursorState { return c.state }

// RowCount reports the number of data rows produced so far. The header
// row never counts. Valid at any time, including after exhaustion.
func (c *Converter) RowCount() int { return c.rowCount }

// Columns returns the column metadata captured at construction.
func (c *Converter) Columns() []*Column {
	out := make([]*Column, len(c.columns))
	copy(out, c.columns)
	return out
}

// SetSeparator changes the field separator. Fails with
// ErrAlreadyFetching once the first batch has been fetched.
func (c *Converter) SetSeparator(sep rune) error {
	if c.started {
		return ErrAlreadyFetching
	}
	if err := validateSeparator(sep); err != nil {
		return err
	}
	c.cfg.separator = sep
	return nil
}

func (c *Converter) SetNumberFormat(pattern string) error {
	if c.started {
		return ErrAlreadyFetching
	}

	cfg := *c.cfg
	cfg.numberFormat = pattern
	formatter, err := newFieldFormatter(&cfg)
	if err != nil {
		return err
	}

	c.cfg.numberFormat = pattern
	c.formatter = formatter
	return nil
}

func (c *Converter) SetDateFormat(pattern string) error {
	if c.started {
		return ErrAlreadyFetching
	}

	cfg := *c.cfg
	cfg.dateFormat = pattern
	formatter, err := newFieldFormatter(&cfg)
	if err != nil {
		return err
	}

	c.cfg.dateFormat = pattern
	c.formatter = formatter
	return nil
}

func (c *Converter) SetQuoteAllStrings(quote bool) error {
	if c.started {
		return ErrAlreadyFetching
	}
	c.cfg.quoteAllStrings = quote
	return nil
}

func (c *Converter) SetBatchSize(size int) error {
	if c.started {
		return ErrAlreadyFetching
	}
	if size < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidBatchSize, size)
	}
	c.cfg.batchSize = size
	return nil
}

// HeaderRow encodes the column names as one CSV row, with the same
// quoting rules as data fields. It does not touch the cursor or the
// row count.
func (c *Converter) HeaderRow() string {
	return encodeHeader(c.columns, c.cfg)
}

// Next produces the next encoded CSV row. ok is false once the source
// is drained; calling Next on an exhausted converter keeps returning
// ("", false, nil), exhaustion is the terminal contract, not an error.
// A fetch or format error leaves the converter unusable.
func (c *Converter) Next() (row string, ok bool, err error) {
	if c.state == CursorExhausted {
		return "", false, nil
	}
	c.started = true

	if len(c.buffer) == 0 {
		rows, err := c.source.Fetch(c.cfg.batchSize)
		if err != nil {
			return "", false, fmt.Errorf("conversion %s: fetching batch: %w", c.id, err)
		}
		if len(rows) == 0 {
			c.state = CursorExhausted
			c.source.Close()
			return "", false, nil
		}
		c.buffer = rows
	}

	raw := c.buffer[0]
	c.buffer = c.buffer[1:]

	fields := make([]string, len(c.columns))
	for i, col := range c.columns {
		var value any
		if i < len(raw) {
			value = raw[i]
		}

		text, err := c.formatter.format(value, col)
		if err != nil {
			return "", false, fmt.Errorf("conversion %s: %w", c.id, err)
		}
		fields[i] = text
	}

	c.rowCount++
	return encodeRow(fields, c.kinds, c.cfg), true, nil
}

// CollectAll drains the converter into a single blob with CRLF between
// rows. When the source yields no data rows the result is empty even
// if the header was requested: a header alone is never emitted.
func (c *Converter) CollectAll(includeHeader bool) (string, error) {
	var sb strings.Builder

	first := true
	for {
		row, ok, err := c.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}

		if first {
			if includeHeader {
				sb.WriteString(c.HeaderRow())
				sb.WriteString("\r\n")
			}
			first = false
		} else {
			sb.WriteString("\r\n")
		}
		sb.WriteString(row)
	}

	if first {
		return "", nil
	}
	return sb.String(), nil
}

// WriteAll drains the converter into a sink, pushing each row as soon
// as it is produced. Header gating matches CollectAll: a source with
// zero data rows leaves the sink untouched, so a file sink still ends
// up with an empty artifact and no header line.
func (c *Converter) WriteAll(sink Sink, includeHeader bool) error {
	first := true
	for {
		row, ok, err := c.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if first {
			if includeHeader {
				if err := sink.WriteRow(c.HeaderRow()); err != nil {
					return fmt.Errorf("conversion %s: writing header: %w", c.id, err)
				}
			}
			first = false
		}

		if err := sink.WriteRow(row); err != nil {
			return fmt.Errorf("conversion %s: writing row: %w", c.id, err)
		}
	}
}
