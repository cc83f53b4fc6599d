package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/flatkit"
	"github.com/arloliu/flatkit/decode"
	"github.com/arloliu/flatkit/flatten"
	"github.com/arloliu/flatkit/format"
	"github.com/arloliu/flatkit/keypath"
	"github.com/arloliu/flatkit/sink"
	"github.com/arloliu/flatkit/table"
)

var convertFlags struct {
	input          string
	output         string
	formatName     string
	configPath     string
	separator      string
	indexNotation  string
	nullMarker     string
	emptyPolicy    string
	emptySentinel  string
	maxDepth       int
	missingDefault string
	columnOrder    string
	delimiter      string
	compress       string
	workers        int
	stream         bool
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertFlags.input, "input", "i", "-", "input file (- for stdin)")
	f.StringVarP(&convertFlags.output, "output", "o", "-", "output file (- for stdout)")
	f.StringVarP(&convertFlags.formatName, "format", "f", "", "input format (json|yaml|msgpack); inferred from the input extension when omitted")
	f.StringVarP(&convertFlags.configPath, "config", "c", "", "TOML config file; command line flags take precedence")
	f.StringVar(&convertFlags.separator, "separator", keypath.DefaultSeparator, "separator between nested mapping keys")
	f.StringVar(&convertFlags.indexNotation, "index-notation", keypath.DefaultIndexNotation, "sequence index template, must contain {i}")
	f.StringVar(&convertFlags.nullMarker, "null-marker", "", "cell text for null values")
	f.StringVar(&convertFlags.emptyPolicy, "empty-policy", "drop", "empty container handling (drop|sentinel)")
	f.StringVar(&convertFlags.emptySentinel, "empty-sentinel", "", "cell text for empty containers under --empty-policy=sentinel")
	f.IntVar(&convertFlags.maxDepth, "max-depth", flatten.DefaultMaxDepth, "maximum nesting depth")
	f.StringVar(&convertFlags.missingDefault, "missing-default", "", "cell text for columns a record does not produce")
	f.StringVar(&convertFlags.columnOrder, "column-order", "first-seen", "column order (first-seen|sorted)")
	f.StringVarP(&convertFlags.delimiter, "delimiter", "d", sink.DefaultDelimiter, "output field delimiter")
	f.StringVar(&convertFlags.compress, "compress", "none", "output compression (none|zstd|s2|lz4)")
	f.IntVarP(&convertFlags.workers, "workers", "w", 1, "goroutines used to flatten records")
	f.BoolVar(&convertFlags.stream, "stream", false, "write rows incrementally instead of buffering the whole file")
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a record stream into a delimited flat file",
	Example: `  flatkit convert -i records.json -o records.csv
  cat records.yaml | flatkit convert -f yaml --column-order sorted
  flatkit convert -i records.mp -o records.csv.zst --compress zstd`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, _ []string) error {
	if convertFlags.configPath != "" {
		cfg, err := loadFileConfig(convertFlags.configPath)
		if err != nil {
			return err
		}
		applyFileConfig(cmd, cfg)
	}

	inputType, err := resolveInputType()
	if err != nil {
		return err
	}

	flattenOpts, tableOpts, sinkOpts, err := buildOptions()
	if err != nil {
		return err
	}

	pipeline, err := flatkit.NewPipeline(
		flatkit.WithFlattenOptions(flattenOpts...),
		flatkit.WithTableOptions(tableOpts...),
		flatkit.WithWorkers(convertFlags.workers),
	)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(convertFlags.input)
	if err != nil {
		return err
	}
	defer closeIn()

	rd, err := decode.CreateReader(inputType, in)
	if err != nil {
		return err
	}

	out, cleanup, err := openOutput(convertFlags.output)
	if err != nil {
		return err
	}

	s, err := newSink(out, sinkOpts)
	if err != nil {
		cleanup(err)
		return err
	}

	runErr := pipeline.RunReader(rd, s)
	if closeErr := s.Close(); runErr == nil {
		runErr = closeErr
	}
	cleanup(runErr)

	return runErr
}

// applyFileConfig copies file settings into the flag values, skipping any
// flag the user set explicitly.
func applyFileConfig(cmd *cobra.Command, cfg fileConfig) {
	changed := cmd.Flags().Changed

	if cfg.Format != "" && !changed("format") {
		convertFlags.formatName = cfg.Format
	}
	if cfg.Separator != "" && !changed("separator") {
		convertFlags.separator = cfg.Separator
	}
	if cfg.IndexNotation != "" && !changed("index-notation") {
		convertFlags.indexNotation = cfg.IndexNotation
	}
	if cfg.NullMarker != "" && !changed("null-marker") {
		convertFlags.nullMarker = cfg.NullMarker
	}
	if cfg.EmptyPolicy != "" && !changed("empty-policy") {
		convertFlags.emptyPolicy = cfg.EmptyPolicy
	}
	if cfg.EmptySentinel != "" && !changed("empty-sentinel") {
		convertFlags.emptySentinel = cfg.EmptySentinel
	}
	if cfg.MaxDepth > 0 && !changed("max-depth") {
		convertFlags.maxDepth = cfg.MaxDepth
	}
	if cfg.MissingDefault != "" && !changed("missing-default") {
		convertFlags.missingDefault = cfg.MissingDefault
	}
	if cfg.ColumnOrder != "" && !changed("column-order") {
		convertFlags.columnOrder = cfg.ColumnOrder
	}
	if cfg.Delimiter != "" && !changed("delimiter") {
		convertFlags.delimiter = cfg.Delimiter
	}
	if cfg.Compress != "" && !changed("compress") {
		convertFlags.compress = cfg.Compress
	}
	if cfg.Workers > 0 && !changed("workers") {
		convertFlags.workers = cfg.Workers
	}
	if cfg.Stream && !changed("stream") {
		convertFlags.stream = true
	}
}

func resolveInputType() (format.InputType, error) {
	if convertFlags.formatName != "" {
		return format.ParseInput(convertFlags.formatName)
	}

	switch strings.ToLower(filepath.Ext(convertFlags.input)) {
	case ".json", ".jsonl", ".ndjson":
		return format.InputJSON, nil
	case ".yaml", ".yml":
		return format.InputYAML, nil
	case ".mp", ".msgpack":
		return format.InputMsgPack, nil
	}

	if convertFlags.input == "-" {
		return 0, errors.New("reading from stdin requires --format")
	}

	return 0, fmt.Errorf("cannot infer input format from %q, use --format", convertFlags.input)
}

func buildOptions() ([]flatten.Option, []table.Option, []sink.Option, error) {
	emptyPolicy, err := format.ParseEmptyPolicy(convertFlags.emptyPolicy)
	if err != nil {
		return nil, nil, nil, err
	}
	columnOrder, err := format.ParseColumnOrder(convertFlags.columnOrder)
	if err != nil {
		return nil, nil, nil, err
	}
	compression, err := format.ParseCompression(convertFlags.compress)
	if err != nil {
		return nil, nil, nil, err
	}

	flattenOpts := []flatten.Option{
		flatten.WithSeparator(convertFlags.separator),
		flatten.WithIndexNotation(convertFlags.indexNotation),
		flatten.WithNullMarker(convertFlags.nullMarker),
		flatten.WithEmptyPolicy(emptyPolicy),
		flatten.WithEmptySentinel(convertFlags.emptySentinel),
		flatten.WithMaxDepth(convertFlags.maxDepth),
	}
	tableOpts := []table.Option{
		table.WithColumnOrder(columnOrder),
		table.WithMissingDefault(convertFlags.missingDefault),
	}
	sinkOpts := []sink.Option{
		sink.WithDelimiter(convertFlags.delimiter),
		sink.WithCompression(compression),
	}

	return flattenOpts, tableOpts, sinkOpts, nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}

	return f, func() { f.Close() }, nil
}

// openOutput opens the output target. The returned cleanup closes the file
// and removes it again when the run failed, so a bad conversion never leaves
// a partial flat file behind.
func openOutput(path string) (io.Writer, func(runErr error), error) {
	if path == "" || path == "-" {
		return os.Stdout, func(error) {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}

	cleanup := func(runErr error) {
		f.Close()
		if runErr != nil {
			os.Remove(path)
		}
	}

	return f, cleanup, nil
}

func newSink(w io.Writer, opts []sink.Option) (sink.RowSink, error) {
	if convertFlags.stream {
		return sink.NewStreamSink(w, opts...)
	}

	return sink.NewBufferSink(w, opts...)
}
