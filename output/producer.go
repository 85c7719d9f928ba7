package output

import "github.com/rowset/csvexport/core"

// Producer exposes a converter as a bare pull contract for host
// engines that drive row production themselves, one call per row.
// Whether the host actually pulls lazily or drains eagerly is the
// host's concern; the producer never reads ahead.
type Producer struct {
	converter *core.Converter
}

func NewProducer(converter *core.Converter) *Producer {
	return &Producer{converter: converter}
}

// Pull yields the next CSV row. ok is false once the underlying
// source is drained; every later call keeps returning ("", false, nil).
func (p *Producer) Pull() (row string, ok bool, err error) {
	return p.converter.Next()
}

// Produced reports how many data rows were pulled so far.
func (p *Producer) Produced() int {
	return p.converter.RowCount()
}
