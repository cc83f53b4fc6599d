// Package table unions flat rows into a consistent column set and
// materializes each row against it, producing the final flat table.
package table

import (
	"github.com/arloliu/flatkit/flatten"
	"github.com/arloliu/flatkit/format"
	"github.com/arloliu/flatkit/internal/options"
	"github.com/arloliu/flatkit/internal/pool"
	"github.com/arloliu/flatkit/sink"
)

// Aggregator accumulates flat rows, building the column set as it goes.
//
// Columns appear in first-seen order: rows are observed in input order, and
// each row contributes its keys in its own production order. This makes the
// resulting column order deterministic for identical input order. The
// alternative lexicographic policy sorts columns at finalization instead.
//
// Aggregation itself cannot fail; errors surface earlier (flattening) or
// later (writing).
type Aggregator struct {
	columns        *ColumnSet
	rows           []flatten.Row
	missingDefault string
}

// Config holds aggregator configuration.
type Config struct {
	order          format.ColumnOrder
	missingDefault string
}

// Option configures an Aggregator.
type Option = options.Option[*Config]

// WithColumnOrder selects the column order policy. Default first-seen.
func WithColumnOrder(order format.ColumnOrder) Option {
	return options.NoError(func(c *Config) {
		c.order = order
	})
}

// WithMissingDefault sets the value substituted for columns a row does not
// contain. Default "".
func WithMissingDefault(def string) Option {
	return options.NoError(func(c *Config) {
		c.missingDefault = def
	})
}

// NewAggregator creates an empty aggregator.
func NewAggregator(opts ...Option) *Aggregator {
	cfg := &Config{order: format.ColumnOrderFirstSeen}
	// Aggregator options cannot fail validation.
	_ = options.Apply(cfg, opts...)

	return &Aggregator{
		columns:        NewColumnSet(cfg.order),
		missingDefault: cfg.missingDefault,
	}
}

// Append buffers a row and unions its key paths into the column set.
func (a *Aggregator) Append(row flatten.Row) {
	a.Observe(row)
	a.rows = append(a.rows, row)
}

// Observe unions a row's key paths into the column set without buffering the
// row. Two-pass pipelines use Observe on the first pass, then Finalize, then
// MaterializeRow per row on the second pass.
func (a *Aggregator) Observe(row flatten.Row) {
	for _, f := range row.Fields() {
		a.columns.Add(f.Path)
	}
}

// Len returns the number of buffered rows.
func (a *Aggregator) Len() int {
	return len(a.rows)
}

// Rows returns the buffered rows in input order. The returned slice is
// shared with the aggregator and must not be modified.
func (a *Aggregator) Rows() []flatten.Row {
	return a.rows
}

// Columns returns the column set in table order. Callers that need the
// final order must call Finalize first.
func (a *Aggregator) Columns() []string {
	return a.columns.Columns()
}

// ColumnSet returns the underlying column set.
func (a *Aggregator) ColumnSet() *ColumnSet {
	return a.columns
}

// Finalize locks the column set and returns it. After Finalize the column
// order never changes for the rest of the run.
func (a *Aggregator) Finalize() *ColumnSet {
	a.columns.Finalize()
	return a.columns
}

// MaterializeRow projects a row onto the full column set, substituting the
// missing-field default for columns the row does not contain. The returned
// slice is freshly allocated and owned by the caller.
func (a *Aggregator) MaterializeRow(row flatten.Row) []string {
	cols := a.columns.Columns()
	out := make([]string, len(cols))
	a.fillRow(out, row, cols)

	return out
}

// WriteTo finalizes the column set and writes the header and all buffered
// rows to the sink in order. It does not close the sink; the caller owns the
// sink's lifecycle.
func (a *Aggregator) WriteTo(s sink.RowSink) error {
	cols := a.Finalize().Columns()

	if err := s.WriteHeader(cols); err != nil {
		return err
	}

	for _, row := range a.rows {
		fields, cleanup := pool.GetStringSlice(len(cols))
		a.fillRow(fields, row, cols)
		err := s.WriteRow(fields)
		cleanup()
		if err != nil {
			return err
		}
	}

	return nil
}

func (a *Aggregator) fillRow(dst []string, row flatten.Row, cols []string) {
	for i, col := range cols {
		if v, ok := row.Get(col); ok {
			dst[i] = v
		} else {
			dst[i] = a.missingDefault
		}
	}
}
