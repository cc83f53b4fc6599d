package format

type (
	CompressionType uint8
	InputType       uint8
	ColumnOrder     uint8
	EmptyPolicy     uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.

	InputJSON    InputType = 0x1 // InputJSON represents JSON record input.
	InputYAML    InputType = 0x2 // InputYAML represents YAML record input.
	InputMsgPack InputType = 0x3 // InputMsgPack represents MessagePack record input.

	ColumnOrderFirstSeen ColumnOrder = 0x1 // ColumnOrderFirstSeen orders columns by first appearance.
	ColumnOrderSorted    ColumnOrder = 0x2 // ColumnOrderSorted orders columns lexicographically.

	EmptyDrop     EmptyPolicy = 0x1 // EmptyDrop drops empty containers from the output.
	EmptySentinel EmptyPolicy = 0x2 // EmptySentinel emits a sentinel cell for empty containers.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (i InputType) String() string {
	switch i {
	case InputJSON:
		return "JSON"
	case InputYAML:
		return "YAML"
	case InputMsgPack:
		return "MsgPack"
	default:
		return "Unknown"
	}
}

func (o ColumnOrder) String() string {
	switch o {
	case ColumnOrderFirstSeen:
		return "FirstSeen"
	case ColumnOrderSorted:
		return "Sorted"
	default:
		return "Unknown"
	}
}

func (p EmptyPolicy) String() string {
	switch p {
	case EmptyDrop:
		return "Drop"
	case EmptySentinel:
		return "Sentinel"
	default:
		return "Unknown"
	}
}
