package output

import (
	"strings"

	"github.com/rowset/csvexport/core"
)

var _ core.Sink = (*Blob)(nil)

// Blob accumulates rows into a single in-memory text blob with CRLF
// between rows, never after the last one. It is the push-style
// counterpart of Converter.CollectAll.
type Blob struct {
	sb   strings.Builder
	rows int
}

func NewBlob() *Blob {
	return &Blob{}
}

func (b *Blob) WriteRow(row string) error {
	if b.rows > 0 {
		b.sb.WriteString("\r\n")
	}
	b.sb.WriteString(row)
	b.rows++
	return nil
}

// String returns the accumulated blob.
func (b *Blob) String() string {
	return b.sb.String()
}

// Len reports the number of rows written, header included when one
// was pushed.
func (b *Blob) Len() int {
	return b.rows
}
