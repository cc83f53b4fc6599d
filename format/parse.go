package format

import (
	"fmt"
	"strings"
)

// ParseCompression parses a compression name (case-insensitive).
func ParseCompression(s string) (CompressionType, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression type: %q", s)
	}
}

// ParseInput parses an input format name (case-insensitive).
func ParseInput(s string) (InputType, error) {
	switch strings.ToLower(s) {
	case "json":
		return InputJSON, nil
	case "yaml", "yml":
		return InputYAML, nil
	case "msgpack", "mp":
		return InputMsgPack, nil
	default:
		return 0, fmt.Errorf("unknown input format: %q", s)
	}
}

// ParseColumnOrder parses a column order name (case-insensitive).
func ParseColumnOrder(s string) (ColumnOrder, error) {
	switch strings.ToLower(s) {
	case "", "first-seen", "firstseen":
		return ColumnOrderFirstSeen, nil
	case "sorted":
		return ColumnOrderSorted, nil
	default:
		return 0, fmt.Errorf("unknown column order: %q", s)
	}
}

// ParseEmptyPolicy parses an empty container policy name (case-insensitive).
func ParseEmptyPolicy(s string) (EmptyPolicy, error) {
	switch strings.ToLower(s) {
	case "", "drop":
		return EmptyDrop, nil
	case "sentinel":
		return EmptySentinel, nil
	default:
		return 0, fmt.Errorf("unknown empty policy: %q", s)
	}
}
