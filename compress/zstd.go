package compress

// ZstdCompressor provides Zstandard compression, the right choice when
// compression ratio matters more than speed: archived flat files, long-term
// retention, or bandwidth-limited transfer of large outputs.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
