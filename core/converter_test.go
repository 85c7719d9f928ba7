package core_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rowset/csvexport/core"
	"github.com/rowset/csvexport/core/mock"
)

func TestConverter_Next(t *testing.T) {
	r := require.New(t)

	rows := mock.NewRows(0, 3)
	source := mock.NewSource(rows)

	converter, err := core.NewConverter(source)
	r.NoError(err)
	r.Equal(core.CursorOpen, converter.State())

	expected := []string{"0,row_0", "1,row_1", "2,row_2"}
	for _, want := range expected {
		row, ok, err := converter.Next()
		r.NoError(err)
		r.True(ok)
		r.Equal(want, row)
	}

	// source drained: the converter flips to exhausted exactly once
	// and every later call keeps yielding the terminal signal
	for i := 0; i < 3; i++ {
		row, ok, err := converter.Next()
		r.NoError(err)
		r.False(ok)
		r.Equal("", row)
		r.Equal(core.CursorExhausted, converter.State())
	}

	r.Equal(3, converter.RowCount())
	r.True(source.Closed())
}

func TestConverter_Batching(t *testing.T) {
	r := require.New(t)

	source := mock.NewSource(mock.NewRows(0, 10))

	converter, err := core.NewConverter(source, core.WithBatchSize(3))
	r.NoError(err)

	for {
		_, ok, err := converter.Next()
		r.NoError(err)
		if !ok {
			break
		}
	}

	// 10 rows in batches of 3 -> 4 data fetches and one final empty one
	r.Equal(5, source.FetchCalls())
	r.Equal(10, converter.RowCount())
}

func TestConverter_HeaderRow(t *testing.T) {
	r := require.New(t)

	source := mock.NewSource(mock.NewRows(0, 2))

	converter, err := core.NewConverter(source)
	r.NoError(err)

	// header is a pure function: callable before and after fetching
	// and it never counts as a data row
	r.Equal("header_0,header_1", converter.HeaderRow())

	_, _, err = converter.Next()
	r.NoError(err)

	r.Equal("header_0,header_1", converter.HeaderRow())
	r.Equal(1, converter.RowCount())
}

func TestConverter_CollectAll(t *testing.T) {
	r := require.New(t)

	source := mock.NewSource(mock.NewRows(0, 3))
	converter, err := core.NewConverter(source)
	r.NoError(err)

	blob, err := converter.CollectAll(true)
	r.NoError(err)

	r.Equal("header_0,header_1\r\n0,row_0\r\n1,row_1\r\n2,row_2", blob)
	r.False(strings.HasSuffix(blob, "\r\n"))
	r.Equal(3, converter.RowCount())
}

func TestConverter_CollectAll_ZeroRows(t *testing.T) {
	r := require.New(t)

	source := mock.NewSource(nil, mock.SourceWithColumns(
		[]*core.Column{{Position: 1, Name: "only", Kind: core.KindText}},
	))
	converter, err := core.NewConverter(source)
	r.NoError(err)

	// a header alone is never emitted: zero data rows yield an empty
	// blob even when the header was requested
	blob, err := converter.CollectAll(true)
	r.NoError(err)
	r.Equal("", blob)
	r.Equal(0, converter.RowCount())
}

func TestConverter_NullOnlyRows(t *testing.T) {
	r := require.New(t)

	// rows of nulls still count as rows; only row presence gates the
	// header, not row content
	rows := []core.Row{{nil, nil}, {nil, nil}}
	source := mock.NewSource(rows, mock.SourceWithColumns([]*core.Column{
		{Position: 1, Name: "a", Kind: core.KindNumeric},
		{Position: 2, Name: "b", Kind: core.KindTemporal},
	}))

	converter, err := core.NewConverter(source)
	r.NoError(err)

	blob, err := converter.CollectAll(true)
	r.NoError(err)
	r.Equal("a,b\r\n,\r\n,", blob)
	r.Equal(2, converter.RowCount())
}

func TestConverter_WriteAll(t *testing.T) {
	r := require.New(t)

	source := mock.NewSource(mock.NewRows(0, 2))
	converter, err := core.NewConverter(source)
	r.NoError(err)

	sink := &recordingSink{}
	r.NoError(converter.WriteAll(sink, true))

	r.Equal([]string{"header_0,header_1", "0,row_0", "1,row_1"}, sink.rows)
}

func TestConverter_WriteAll_ZeroRows(t *testing.T) {
	r := require.New(t)

	source := mock.NewSource(nil, mock.SourceWithColumns(
		[]*core.Column{{Position: 1, Name: "only", Kind: core.KindText}},
	))
	converter, err := core.NewConverter(source)
	r.NoError(err)

	sink := &recordingSink{}
	r.NoError(converter.WriteAll(sink, true))
	r.Empty(sink.rows)
}

func TestConverter_FetchError(t *testing.T) {
	r := require.New(t)

	fetchErr := errors.New("connection reset")
	source := mock.NewSource(mock.NewRows(0, 5),
		mock.SourceWithFetchError(2, fetchErr),
	)

	converter, err := core.NewConverter(source, core.WithBatchSize(2))
	r.NoError(err)

	_, ok, err := converter.Next()
	r.NoError(err)
	r.True(ok)

	_, _, err = converter.Next()
	r.NoError(err)

	// third row needs a new batch, which fails
	_, _, err = converter.Next()
	r.ErrorIs(err, fetchErr)
}

func TestConverter_MetadataError(t *testing.T) {
	r := require.New(t)

	metaErr := errors.New("result set not open")
	source := mock.NewSource(nil, mock.SourceWithColumnsError(metaErr))

	_, err := core.NewConverter(source)
	r.ErrorIs(err, metaErr)
}

func TestConverter_Formatting(t *testing.T) {
	r := require.New(t)

	hired := time.Date(2019, time.November, 12, 0, 0, 0, 0, time.UTC)
	rows := []core.Row{
		{"Thorin", int64(2500), hired},
		{nil, 999.9, nil},
	}
	source := mock.NewSource(rows, mock.SourceWithColumns([]*core.Column{
		{Position: 1, Name: "name", Kind: core.KindText},
		{Position: 2, Name: "salary", Kind: core.KindNumeric},
		{Position: 3, Name: "hired", Kind: core.KindTemporal},
	}))

	converter, err := core.NewConverter(source,
		core.WithNumberFormat("#,##0.00"),
		core.WithDateFormat("YYYY-MM-DD"),
	)
	r.NoError(err)

	blob, err := converter.CollectAll(false)
	r.NoError(err)

	// the grouping separator introduced by the number pattern collides
	// with the field separator, so the quoting stage contains it
	r.Equal("Thorin,\"2,500.00\",2019-11-12\r\n,999.90,", blob)
}

func TestConverter_SettersLockAfterFirstFetch(t *testing.T) {
	r := require.New(t)

	source := mock.NewSource(mock.NewRows(0, 2))
	converter, err := core.NewConverter(source)
	r.NoError(err)

	r.NoError(converter.SetSeparator(';'))
	r.NoError(converter.SetNumberFormat("#,##0"))
	r.NoError(converter.SetDateFormat("YYYY-MM-DD"))
	r.NoError(converter.SetQuoteAllStrings(true))
	r.NoError(converter.SetBatchSize(10))

	_, _, err = converter.Next()
	r.NoError(err)

	r.ErrorIs(converter.SetSeparator(','), core.ErrAlreadyFetching)
	r.ErrorIs(converter.SetNumberFormat(""), core.ErrAlreadyFetching)
	r.ErrorIs(converter.SetDateFormat(""), core.ErrAlreadyFetching)
	r.ErrorIs(converter.SetQuoteAllStrings(false), core.ErrAlreadyFetching)
	r.ErrorIs(converter.SetBatchSize(1), core.ErrAlreadyFetching)
}

func TestConverter_OptionValidation(t *testing.T) {
	r := require.New(t)

	source := mock.NewSource(mock.NewRows(0, 1))

	_, err := core.NewConverter(source, core.WithBatchSize(0))
	r.ErrorIs(err, core.ErrInvalidBatchSize)

	_, err = core.NewConverter(mock.NewSource(mock.NewRows(0, 1)), core.WithSeparator('"'))
	r.ErrorIs(err, core.ErrInvalidSeparator)

	_, err = core.NewConverter(mock.NewSource(mock.NewRows(0, 1)), core.WithNumberFormat("no digits"))
	r.ErrorIs(err, core.ErrInvalidNumberFormat)

	_, err = core.NewConverter(nil)
	r.ErrorIs(err, core.ErrNilSource)
}

type recordingSink struct {
	rows []string
}

func (s *recordingSink) WriteRow(row string) error {
	s.rows = append(s.rows, row)
	return nil
}
