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

// StreamSink writes rows to the underlying writer as they arrive.
//
// Without compression each header and row line reaches the writer
// immediately. With compression the rendered payload accumulates in a pooled
// buffer and is compressed and written as one block on Close; compression
// formats are block-oriented here, matching the codec layer.
//
// StreamSink is not safe for concurrent use. The aggregation stage is the
// single writer of a sink in the pipeline.
type StreamSink struct {
	*Config

	w     io.Writer
	codec compress.Codec
	buf   *pool.ByteBuffer

	columnCount int
	wroteHeader bool
	closed      bool
}

var _ RowSink = (*StreamSink)(nil)

// NewStreamSink creates a StreamSink writing to w.
//
// The caller retains ownership of w itself (an *os.File passed in here is
// still closed by the caller), but must not write to w between NewStreamSink
// and Close.
func NewStreamSink(w io.Writer, opts ...Option) (*StreamSink, error) {
	cfg := newSinkConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	s := &StreamSink{
		Config: cfg,
		w:      w,
	}

	if cfg.compression != format.CompressionNone {
		codec, err := compress.GetCodec(cfg.compression)
		if err != nil {
			return nil, err
		}
		s.codec = codec
		s.buf = pool.GetFileBuffer()
	} else {
		s.buf = pool.GetLineBuffer()
	}

	return s, nil
}

// WriteHeader writes the header line. It must be called exactly once,
// before any row.
func (s *StreamSink) WriteHeader(columns []string) error {
	if s.closed {
		return errs.ErrSinkClosed
	}
	if s.wroteHeader {
		return fmt.Errorf("%w: header already written", errs.ErrWriteFailed)
	}

	s.columnCount = len(columns)
	s.wroteHeader = true

	return s.writeLine(columns)
}

// WriteRow writes one row line. The field count must match the header.
func (s *StreamSink) WriteRow(fields []string) error {
	if s.closed {
		return errs.ErrSinkClosed
	}
	if !s.wroteHeader {
		return errs.ErrHeaderNotWritten
	}
	if len(fields) != s.columnCount {
		return fmt.Errorf("%w: got %d fields, header has %d columns",
			errs.ErrFieldCountMismatch, len(fields), s.columnCount)
	}

	return s.writeLine(fields)
}

func (s *StreamSink) writeLine(fields []string) error {
	if s.codec != nil {
		// Compressed output accumulates until Close.
		appendRecord(s.buf, fields, s.delimiter)
		return nil
	}

	s.buf.Reset()
	appendRecord(s.buf, fields, s.delimiter)
	if _, err := s.buf.WriteTo(s.w); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrWriteFailed, err)
	}

	return nil
}

// Close flushes any pending compressed payload and releases the sink's
// buffers. Close is idempotent; after Close all writes fail with
// errs.ErrSinkClosed.
func (s *StreamSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	defer func() {
		if s.codec != nil {
			pool.PutFileBuffer(s.buf)
		} else {
			pool.PutLineBuffer(s.buf)
		}
		s.buf = nil
	}()

	if s.codec == nil || s.buf.Len() == 0 {
		return nil
	}

	compressed, err := s.codec.Compress(s.buf.Bytes())
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrWriteFailed, err)
	}
	if _, err := s.w.Write(compressed); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrWriteFailed, err)
	}

	return nil
}
