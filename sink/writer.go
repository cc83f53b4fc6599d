// Package sink writes the aggregated flat table to delimited output.
//
// The low-level encoding is shared by two RowSink strategies:
//
//   - StreamSink writes the header and each row to the underlying writer as
//     they arrive. It fits the two-pass pipeline, where the column set is
//     finalized before the first row is written.
//   - BufferSink holds the whole output in memory and emits it in a single
//     write on Flush. It fits single-pass operation, and additionally
//     guarantees that a failed run never leaves a truncated file behind.
//
// Output format: fields joined by the configured delimiter (default ","),
// rows terminated by "\n", UTF-8. Any field containing the delimiter, a
// quote, or a line break is wrapped in quotes with embedded quotes doubled.
package sink

import (
	"fmt"
	"strings"

	"github.com/arloliu/flatkit/compress"
	"github.com/arloliu/flatkit/errs"
	"github.com/arloliu/flatkit/format"
	"github.com/arloliu/flatkit/internal/options"
	"github.com/arloliu/flatkit/internal/pool"
)

// RowSink consumes a finalized header followed by materialized rows.
//
// Usage contract: WriteHeader exactly once, then WriteRow per row with one
// field per header column, then Close. Close must be called on every exit
// path, including failure, and is idempotent.
type RowSink interface {
	WriteHeader(columns []string) error
	WriteRow(fields []string) error
	Close() error
}

// DefaultDelimiter is the default output field delimiter.
const DefaultDelimiter = ","

const quote = '"'

// Config holds the output encoding configuration shared by the sinks.
type Config struct {
	delimiter   string
	compression format.CompressionType
}

func newSinkConfig() *Config {
	return &Config{
		delimiter:   DefaultDelimiter,
		compression: format.CompressionNone,
	}
}

// Option configures a sink.
type Option = options.Option[*Config]

// WithDelimiter sets the output field delimiter. The delimiter must be
// non-empty and must not contain a quote or line break, which would make the
// escaping rules ambiguous. Default ",".
func WithDelimiter(delimiter string) Option {
	return options.New(func(c *Config) error {
		if delimiter == "" || strings.ContainsAny(delimiter, "\"\n\r") {
			return fmt.Errorf("%w: %q", errs.ErrInvalidDelimiter, delimiter)
		}
		c.delimiter = delimiter

		return nil
	})
}

// WithCompression selects whole-payload compression for the rendered flat
// file. Default format.CompressionNone.
//
// Compression implies buffering: the complete payload is rendered first and
// compressed in one block on Close or Flush.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if _, err := compress.GetCodec(compression); err != nil {
			return err
		}
		c.compression = compression

		return nil
	})
}

// appendField appends one field to the line buffer, quoting it when it
// contains the delimiter, a quote, or a line break. Embedded quotes are
// doubled.
func appendField(buf *pool.ByteBuffer, field, delimiter string) {
	if !strings.Contains(field, delimiter) && !strings.ContainsAny(field, "\"\n\r") {
		_, _ = buf.WriteString(field)
		return
	}

	_ = buf.WriteByte(quote)
	for i := 0; i < len(field); i++ {
		if field[i] == quote {
			_ = buf.WriteByte(quote)
		}
		_ = buf.WriteByte(field[i])
	}
	_ = buf.WriteByte(quote)
}

// appendRecord appends one full record line, delimiters between fields and a
// trailing newline, to the buffer.
func appendRecord(buf *pool.ByteBuffer, fields []string, delimiter string) {
	for i, f := range fields {
		if i > 0 {
			_, _ = buf.WriteString(delimiter)
		}
		appendField(buf, f, delimiter)
	}
	_ = buf.WriteByte('\n')
}
