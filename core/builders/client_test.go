package builders_test

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/rowset/csvexport/core"
	"github.com/rowset/csvexport/core/builders"
)

func employeeColumns(t *testing.T) []*sqlmock.Column {
	t.Helper()

	return []*sqlmock.Column{
		sqlmock.NewColumn("name").OfType("VARCHAR", "").WithLength(64),
		sqlmock.NewColumn("salary").OfType("NUMERIC", float64(0)),
		sqlmock.NewColumn("hired").OfType("DATE", ""),
		sqlmock.NewColumn("photo").OfType("BYTEA", []byte{}),
	}
}

func TestClient_Open_Columns(t *testing.T) {
	r := require.New(t)

	db, mock, err := sqlmock.New()
	r.NoError(err)

	rows := sqlmock.NewRowsWithColumnDefinition(employeeColumns(t)...).
		AddRow("Thorin", 2500.0, "2019-11-12", []byte{0x1})

	mock.ExpectQuery("SELECT \\* FROM employees").WillReturnRows(rows)

	client := builders.NewClient(db)
	defer client.Close()

	source, err := client.Open(context.Background(), "SELECT * FROM employees")
	r.NoError(err)
	defer source.Close()

	columns, err := source.Columns()
	r.NoError(err)
	r.Len(columns, 4)

	r.Equal(1, columns[0].Position)
	r.Equal("name", columns[0].Name)
	r.Equal(core.KindText, columns[0].Kind)
	r.Equal(int64(64), columns[0].Width)

	r.Equal(core.KindNumeric, columns[1].Kind)
	r.Equal(core.KindTemporal, columns[2].Kind)
	r.Equal(core.KindOther, columns[3].Kind)
	r.Equal(4, columns[3].Position)
}

func TestClient_Open_BatchedFetch(t *testing.T) {
	r := require.New(t)

	db, mock, err := sqlmock.New()
	r.NoError(err)

	rows := sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("id").OfType("INT4", int64(0)),
	)
	for i := 0; i < 7; i++ {
		rows.AddRow(int64(i))
	}

	mock.ExpectQuery("SELECT id").WillReturnRows(rows)

	client := builders.NewClient(db)
	defer client.Close()

	source, err := client.Open(context.Background(), "SELECT id FROM t")
	r.NoError(err)
	defer source.Close()

	// three full batches, then the short final one, then drained
	for _, want := range []int{3, 3, 1, 0} {
		batch, err := source.Fetch(3)
		r.NoError(err)
		r.Len(batch, want)
	}

	// drained sources stay drained
	batch, err := source.Fetch(3)
	r.NoError(err)
	r.Empty(batch)
}

func TestClient_Open_DefaultProcessor(t *testing.T) {
	r := require.New(t)

	db, mock, err := sqlmock.New()
	r.NoError(err)

	rows := sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("name").OfType("TEXT", ""),
	).AddRow([]byte("Bilbo"))

	mock.ExpectQuery("SELECT name").WillReturnRows(rows)

	client := builders.NewClient(db)
	defer client.Close()

	source, err := client.Open(context.Background(), "SELECT name FROM t")
	r.NoError(err)
	defer source.Close()

	batch, err := source.Fetch(1)
	r.NoError(err)
	r.Len(batch, 1)

	// drivers hand text back as []byte, the default processor
	// converts it
	r.Equal("Bilbo", batch[0][0])
}

func TestClient_Open_CustomTypeProcessor(t *testing.T) {
	r := require.New(t)

	db, mock, err := sqlmock.New()
	r.NoError(err)

	rows := sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("flag").OfType("BOOL", true),
	).AddRow(true)

	mock.ExpectQuery("SELECT flag").WillReturnRows(rows)

	client := builders.NewClient(db, builders.WithTypeProcessor("bool", func(v any) any {
		if v == true {
			return "Y"
		}
		return "N"
	}))
	defer client.Close()

	source, err := client.Open(context.Background(), "SELECT flag FROM t")
	r.NoError(err)
	defer source.Close()

	batch, err := source.Fetch(1)
	r.NoError(err)
	r.Equal("Y", batch[0][0])
}

func TestClient_Open_QueryError(t *testing.T) {
	r := require.New(t)

	db, mock, err := sqlmock.New()
	r.NoError(err)

	mock.ExpectQuery("SELECT boom").WillReturnError(context.DeadlineExceeded)

	client := builders.NewClient(db)
	defer client.Close()

	_, err = client.Open(context.Background(), "SELECT boom")
	r.Error(err)
}

func TestClient_EndToEnd(t *testing.T) {
	r := require.New(t)

	db, mock, err := sqlmock.New()
	r.NoError(err)

	rows := sqlmock.NewRowsWithColumnDefinition(employeeColumns(t)...).
		AddRow("Baggins, Bilbo \"badboy\"", 123.45, "2019-11-12", nil).
		AddRow("Thorin", 2500.0, nil, nil)

	mock.ExpectQuery("SELECT \\* FROM employees").WillReturnRows(rows)

	client := builders.NewClient(db)
	defer client.Close()

	source, err := client.Open(context.Background(), "SELECT * FROM employees")
	r.NoError(err)

	converter, err := core.NewConverter(source)
	r.NoError(err)

	blob, err := converter.CollectAll(true)
	r.NoError(err)

	r.Equal("name,salary,hired,photo\r\n"+
		"\"Baggins, Bilbo \"\"badboy\"\"\",123.45,11/12/2019,\r\n"+
		"Thorin,2500,,", blob)
	r.Equal(2, converter.RowCount())
}
