// Package flatkit converts hierarchical records into delimited flat files.
//
// Flatkit is built for heterogeneous record sets: each record may carry a
// different shape, and the output table is the ordered union of every column
// any record produced. Nested mappings become separator-joined column names
// and sequences become indexed column names, so {"a":1,"b":{"x":2}} and
// {"a":3,"c":[4,5]} together produce the columns a, b.x, c[0] and c[1].
//
// # Core Features
//
//   - Deterministic column naming with configurable separator and index notation
//   - First-seen or lexicographic column order across the whole record set
//   - Path collision detection (distinct source paths rendering the same column)
//   - Streaming and buffered flat-file sinks with RFC 4180 style escaping
//   - Optional whole-file compression (Zstd, S2, LZ4)
//   - JSON, YAML and MessagePack record readers that preserve key order
//
// # Basic Usage
//
// Flattening a record set and writing a flat file:
//
//	import "github.com/arloliu/flatkit"
//
//	records, _ := flatkit.DecodeAll(format.InputJSON, jsonFile)
//
//	var out bytes.Buffer
//	s, _ := sink.NewBufferSink(&out)
//	p, _ := flatkit.NewPipeline()
//	if err := p.Run(records, s); err != nil {
//	    log.Fatal(err)
//	}
//	// out now holds the delimited flat file.
//
// Flattening a single record into path/value fields:
//
//	row, _ := flatkit.Flatten(rec)
//	for _, f := range row.Fields() {
//	    fmt.Printf("%s=%s\n", f.Path, f.Value)
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the flatten,
// table and sink packages, simplifying the most common use cases. For
// fine-grained control over column handling and output, use those packages
// directly.
package flatkit

import (
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/flatkit/decode"
	"github.com/arloliu/flatkit/flatten"
	"github.com/arloliu/flatkit/format"
	"github.com/arloliu/flatkit/internal/hash"
	"github.com/arloliu/flatkit/internal/options"
	"github.com/arloliu/flatkit/sink"
	"github.com/arloliu/flatkit/table"
	"github.com/arloliu/flatkit/value"
)

// Flatten converts a single record into a row of path/value fields using the
// given flattening options.
//
// Parameters:
//   - rec: the record to flatten
//   - opts: flattening options (separator, index notation, null marker, ...)
//
// Returns:
//   - flatten.Row: the flattened fields in depth-first document order
//   - error: configuration, depth or collision error
func Flatten(rec value.Value, opts ...flatten.Option) (flatten.Row, error) {
	f, err := flatten.New(opts...)
	if err != nil {
		return flatten.Row{}, err
	}

	return f.Flatten(rec)
}

// FlattenAll converts a slice of records into rows, sharing a single
// flattener so configuration is validated once.
//
// Errors are annotated with the zero-based index of the failing record.
func FlattenAll(records []value.Value, opts ...flatten.Option) ([]flatten.Row, error) {
	f, err := flatten.New(opts...)
	if err != nil {
		return nil, err
	}

	rows := make([]flatten.Row, len(records))
	for i, rec := range records {
		row, err := f.Flatten(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rows[i] = row
	}

	return rows, nil
}

// DecodeAll reads every record from r in the given input format.
func DecodeAll(inputType format.InputType, r io.Reader) ([]value.Value, error) {
	rd, err := decode.CreateReader(inputType, r)
	if err != nil {
		return nil, err
	}

	return decode.ReadAll(rd)
}

// PathID returns the 64-bit hash of a rendered column path. The same hash is
// used internally for column and field lookup.
func PathID(path string) uint64 {
	return hash.ID(path)
}

// Pipeline runs the full conversion: flatten every record, aggregate the
// column union, then write header and rows to a sink.
type Pipeline struct {
	config *pipelineConfig
}

type pipelineConfig struct {
	flattenOpts []flatten.Option
	tableOpts   []table.Option
	workers     int
}

// PipelineOption configures a Pipeline.
type PipelineOption = options.Option[*pipelineConfig]

// WithFlattenOptions passes options through to the per-record flattener.
func WithFlattenOptions(opts ...flatten.Option) PipelineOption {
	return options.NoError(func(c *pipelineConfig) {
		c.flattenOpts = append(c.flattenOpts, opts...)
	})
}

// WithTableOptions passes options through to the row aggregator.
func WithTableOptions(opts ...table.Option) PipelineOption {
	return options.NoError(func(c *pipelineConfig) {
		c.tableOpts = append(c.tableOpts, opts...)
	})
}

// WithWorkers sets the number of goroutines used to flatten records.
//
// Aggregation always happens in input order regardless of worker count, so
// the output is identical for any value. Values below 1 mean serial.
func WithWorkers(n int) PipelineOption {
	return options.NoError(func(c *pipelineConfig) {
		c.workers = n
	})
}

// NewPipeline creates a Pipeline with the given options.
func NewPipeline(opts ...PipelineOption) (*Pipeline, error) {
	config := &pipelineConfig{workers: 1}
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	// Validate flattening options up front.
	if _, err := flatten.New(config.flattenOpts...); err != nil {
		return nil, err
	}

	return &Pipeline{config: config}, nil
}

// Run flattens records, aggregates them and writes the result to s.
//
// The sink is left open; callers own its lifecycle. On error nothing may
// have been written, or a partial file may exist for streaming sinks, so
// callers should discard the output on failure.
func (p *Pipeline) Run(records []value.Value, s sink.RowSink) error {
	rows, err := p.flattenRows(records)
	if err != nil {
		return err
	}

	agg := table.NewAggregator(p.config.tableOpts...)
	for _, row := range rows {
		agg.Append(row)
	}

	return agg.WriteTo(s)
}

// RunReader drains a record reader and runs the pipeline over the result.
func (p *Pipeline) RunReader(rd decode.Reader, s sink.RowSink) error {
	records, err := decode.ReadAll(rd)
	if err != nil {
		return err
	}

	return p.Run(records, s)
}

// flattenRows flattens records, in parallel when workers > 1. Row order
// always matches record order.
func (p *Pipeline) flattenRows(records []value.Value) ([]flatten.Row, error) {
	if p.config.workers <= 1 {
		return FlattenAll(records, p.config.flattenOpts...)
	}

	f, err := flatten.New(p.config.flattenOpts...)
	if err != nil {
		return nil, err
	}

	rows := make([]flatten.Row, len(records))

	var g errgroup.Group
	g.SetLimit(p.config.workers)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			// Collision state is per record, so one flattener is shared.
			row, err := f.Flatten(rec)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			rows[i] = row

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return rows, nil
}
