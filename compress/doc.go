// Package compress provides decompression codecs for wrapped blackbox log
// containers.
//
// Real-world .bbl/.txt blackbox logs are sometimes shipped compressed by
// ground-station tooling before being handed to a decoder. This package lets
// a caller transparently unwrap that container before marker-scanning,
// without needing to know in advance which algorithm was used.
//
// # Supported algorithms
//
//   - None: the log was not compressed; the input is returned unchanged
//   - Zstd: best compression ratio, moderate speed
//   - S2: balanced compression and speed, a Snappy-compatible alternative
//   - LZ4: very fast decompression, moderate compression ratio
//
// # Architecture
//
// Compressor/Decompressor/Codec mirror the shape of a read/write pair, but
// this package's own production code only ever calls Decompress —
// blackbox log decoding is a read path. Compress exists on every codec
// because the package's tests use it to build round-trip fixtures, and
// because dropping a working, spec'd implementation to satisfy a read-only
// call site would throw away more than it saves.
//
// # Container detection
//
// Sniff inspects a byte slice's leading magic bytes and reports which Kind,
// if any, wrapped it. Unwrap combines Sniff with GetCodec to decompress a
// whole container in one call, returning Stats describing the operation.
package compress
