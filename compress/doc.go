// Package compress provides optional compression for rendered flat files.
//
// Flat text output compresses extremely well: the header names repeat in
// structure across rows, fields share prefixes, and delimiters recur on
// every line. The sink layer renders the complete flat file payload and
// hands it to a Codec from this package before the bytes reach storage.
//
// Four codecs are available, selected by format.CompressionType:
//
//   - None: passthrough, for small outputs or downstream tools that expect
//     plain text
//   - Zstd: best compression ratio, the right default for archived output
//   - S2: fastest, for large outputs on hot paths
//   - LZ4: fast with moderate ratio, for bandwidth-limited transfers
//
// All codecs are safe for concurrent use.
package compress
