package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/rowset/csvexport/core"
)

// nativeNewline is the host platform's line ending, used by the file
// sink. The blob sink always uses CRLF instead.
var nativeNewline = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// File writes converter output to a file on disk, row by row, each
// terminated with the platform's native line ending. A converter with
// zero data rows still produces the file, empty and without a header.
type File struct {
	fileName string
	logf     func(format string, args ...any)
}

type FileOption func(*File)

// FileWithLogf sets an optional log hook called after a successful
// write.
func FileWithLogf(logf func(format string, args ...any)) FileOption {
	return func(f *File) {
		f.logf = logf
	}
}

func NewFile(fileName string, opts ...FileOption) *File {
	f := &File{
		fileName: fileName,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *File) Write(converter *core.Converter, includeHeader bool) error {
	file, err := os.Create(f.fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := converter.WriteAll(NewWriterSink(w), includeHeader); err != nil {
		return fmt.Errorf("failed to write csv to %s: %w", f.fileName, err)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if f.logf != nil {
		f.logf("saved %d rows to %s", converter.RowCount(), f.fileName)
	}
	return nil
}

var _ core.Sink = (*WriterSink)(nil)

// WriterSink adapts an io.Writer into a core.Sink, terminating every
// row with the native line ending.
type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) WriteRow(row string) error {
	if _, err := io.WriteString(s.w, row); err != nil {
		return err
	}
	_, err := io.WriteString(s.w, nativeNewline)
	return err
}
