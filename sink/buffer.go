package sink

import (
	"fmt"
	"io"

	"github.com/arloliu/flatkit/compress"
	"github.com/arloliu/flatkit/errs"
	"github.com/arloliu/flatkit/format"
	"github.com/arloliu/flatkit/internal/options"
	"github.com/arloliu/flatkit/internal/pool"
)

// BufferSink buffers the header and all rows in memory and writes the
// complete flat file in one operation on Flush (or Close).
//
// This is the single-pass strategy: rows may arrive before the final column
// set is known, so WriteRow is accepted before WriteHeader, and field counts
// are validated against the header at flush time. Nothing reaches the
// underlying writer until Flush, so a run that fails midway leaves no
// partial, header-less file behind.
type BufferSink struct {
	*Config

	w      io.Writer
	header []string
	rows   [][]string

	hasHeader bool
	flushed   bool
	closed    bool
}

var _ RowSink = (*BufferSink)(nil)

// NewBufferSink creates a BufferSink writing to w on Flush.
func NewBufferSink(w io.Writer, opts ...Option) (*BufferSink, error) {
	cfg := newSinkConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &BufferSink{
		Config: cfg,
		w:      w,
	}, nil
}

// WriteHeader records the header. It may be called before or after rows are
// buffered, but exactly once and before Flush.
func (b *BufferSink) WriteHeader(columns []string) error {
	if b.closed {
		return errs.ErrSinkClosed
	}
	if b.hasHeader {
		return fmt.Errorf("%w: header already written", errs.ErrWriteFailed)
	}

	b.header = append([]string(nil), columns...)
	b.hasHeader = true

	return nil
}

// WriteRow buffers one row. The row is copied; the caller may reuse the
// slice. Once the sink has flushed, further rows are rejected: they could
// never reach the output.
func (b *BufferSink) WriteRow(fields []string) error {
	if b.closed || b.flushed {
		return errs.ErrSinkClosed
	}

	b.rows = append(b.rows, append([]string(nil), fields...))

	return nil
}

// Len returns the number of buffered rows.
func (b *BufferSink) Len() int {
	return len(b.rows)
}

// Flush renders the buffered header and rows and writes them to the
// underlying writer in a single operation, applying compression when
// configured. Flush fails if no header was recorded or if any buffered row's
// field count differs from the header.
func (b *BufferSink) Flush() error {
	if b.closed {
		return errs.ErrSinkClosed
	}
	if b.flushed {
		return nil
	}
	if !b.hasHeader {
		return errs.ErrHeaderNotWritten
	}

	for _, row := range b.rows {
		if len(row) != len(b.header) {
			return fmt.Errorf("%w: got %d fields, header has %d columns",
				errs.ErrFieldCountMismatch, len(row), len(b.header))
		}
	}

	buf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(buf)

	appendRecord(buf, b.header, b.delimiter)
	for _, row := range b.rows {
		appendRecord(buf, row, b.delimiter)
	}

	payload := buf.Bytes()
	if b.compression != format.CompressionNone {
		codec, err := compress.GetCodec(b.compression)
		if err != nil {
			return err
		}
		payload, err = codec.Compress(payload)
		if err != nil {
			return fmt.Errorf("%w: %w", errs.ErrWriteFailed, err)
		}
	}

	if _, err := b.w.Write(payload); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrWriteFailed, err)
	}

	b.flushed = true
	b.rows = nil

	return nil
}

// Close flushes pending output unless a flush already happened, then marks
// the sink closed. Close is idempotent.
func (b *BufferSink) Close() error {
	if b.closed {
		return nil
	}

	var err error
	if !b.flushed && (b.hasHeader || len(b.rows) > 0) {
		err = b.Flush()
	}
	b.closed = true
	b.rows = nil

	return err
}
