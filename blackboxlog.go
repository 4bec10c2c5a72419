// Package blackboxlog decodes Blackbox flight-recorder logs produced by
// Betaflight/INAV-class multirotor firmware: ASCII headers describing
// field layouts and prediction rules, followed by a bit-packed binary
// payload of heterogeneous frames recorded during flight.
//
// # Core Features
//
//   - Transparent zstd/LZ4 container decompression on load (S2 input must
//     be unwrapped by the caller, see NewFile)
//   - Multi-log indexing: one input file may concatenate several logs
//   - Streaming frame decoding with no persisted state and no I/O
//   - Field-level access to decoded values, with an optional name filter
//
// # Basic Usage
//
// Opening a file and walking the first log it contains:
//
//	import "github.com/nicholassherlock/blackbox-log"
//
//	data, _ := os.ReadFile("flight.bbl")
//	file, err := blackboxlog.NewFile(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	headers, dataParser, err := file.Open(0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for {
//	    event, ok := dataParser.Next()
//	    if !ok {
//	        break
//	    }
//	    if event.Kind == parser.KindMain {
//	        iteration, _ := event.Frame.Get(0)
//	        fmt.Println(iteration.Int32())
//	    }
//	}
//
//	fmt.Printf("decoded %d main frames\n", dataParser.Stats().Main)
//
// # Package Structure
//
// This package provides a convenient top-level entry point wrapping the
// headers, parser, and compress packages. For fine-grained control over
// header parsing or frame decoding, use those packages directly.
package blackboxlog

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/nicholassherlock/blackbox-log/compress"
	"github.com/nicholassherlock/blackbox-log/headers"
	"github.com/nicholassherlock/blackbox-log/internal/options"
	"github.com/nicholassherlock/blackbox-log/internal/pool"
	"github.com/nicholassherlock/blackbox-log/parser"
	"github.com/nicholassherlock/blackbox-log/reader"
)

// logMarker is the ASCII literal every individual log begins with. A file
// passed to NewFile may concatenate several logs, each starting with a
// fresh copy of this marker.
const logMarker = "H Product:Blackbox flight data recorder by Nicholas Sherlock\n"

// fieldSeriesBatchSize bounds the scratch buffer FieldSeries pulls from
// the slice pool; results are copied out in batches of this size rather
// than growing a pooled buffer to the full series length.
const fieldSeriesBatchSize = 256

// File indexes the log-start markers in a (possibly multi-log) blackbox
// file and hands out a Reader positioned at each one. It holds no open
// handles and does no I/O; data is expected to already be resident in
// memory.
//
// A File is safe to use to open independent DataParsers concurrently from
// multiple goroutines: each Reader/DataParser pair gets its own decoding
// state and the underlying byte slice is read-only.
type File struct {
	data    []byte
	offsets []int
	log     *slog.Logger
}

type fileConfig struct {
	log *slog.Logger
}

// FileOption configures NewFile.
type FileOption = options.Option[*fileConfig]

// WithLogger directs NewFile's header parsing and frame decoding
// diagnostics to log instead of slog.Default().
func WithLogger(log *slog.Logger) FileOption {
	return options.NoError(func(c *fileConfig) { c.log = log })
}

// NewFile indexes every log-start marker in data and returns a File ready
// to hand out readers via Reader or Open.
//
// data is sniffed for a zstd/S2/LZ4 container wrapper (see package
// compress) and transparently decompressed before marker-scanning; plain
// uncompressed input, the common case, passes through untouched. S2's
// block format carries no magic number of its own, so an S2-compressed
// file must be decompressed by the caller with compress.UnwrapWithKind
// before being passed to NewFile.
//
// Parameters:
//   - data: the raw (or container-compressed) file bytes.
//   - opts: optional configuration (see WithLogger).
//
// Returns:
//   - *File: the indexed file.
//   - error: if data carries a recognized container magic but fails to
//     decompress, or contains no log-start marker at all.
//
// Example:
//
//	file, err := blackboxlog.NewFile(data, blackboxlog.WithLogger(myLogger))
func NewFile(data []byte, opts ...FileOption) (*File, error) {
	cfg := &fileConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, fmt.Errorf("blackboxlog: apply options: %w", err)
	}

	if cfg.log == nil {
		cfg.log = slog.Default()
	}

	raw, _, err := compress.Unwrap(data)
	if err != nil {
		return nil, fmt.Errorf("blackboxlog: unwrap container: %w", err)
	}

	offsets := indexMarkers(raw)
	if len(offsets) == 0 {
		return nil, fmt.Errorf("blackboxlog: no log-start marker found")
	}

	return &File{data: raw, offsets: offsets, log: cfg.log}, nil
}

func indexMarkers(data []byte) []int {
	marker := []byte(logMarker)

	var offsets []int

	for pos := 0; ; {
		idx := bytes.Index(data[pos:], marker)
		if idx < 0 {
			break
		}

		offsets = append(offsets, pos+idx)
		pos += idx + len(marker)
	}

	return offsets
}

// LogCount reports how many independent logs were indexed.
func (f *File) LogCount() int {
	return len(f.offsets)
}

// Reader returns a reader positioned at the start of log i's marker,
// bounded so it cannot read into the next log (or, for the last log, past
// EOF).
//
// Parameters:
//   - i: the 0-based log index, in [0, LogCount()).
//
// Returns:
//   - *reader.Reader: a reader over exactly log i's bytes.
//   - error: if i is out of range.
func (f *File) Reader(i int) (*reader.Reader, error) {
	if i < 0 || i >= len(f.offsets) {
		return nil, fmt.Errorf("blackboxlog: log index %d out of range [0,%d)", i, len(f.offsets))
	}

	start := f.offsets[i]
	end := len(f.data)

	if i+1 < len(f.offsets) {
		end = f.offsets[i+1]
	}

	return reader.New(f.data[start:end]), nil
}

// Headers parses log i's header block and returns both the parsed
// Headers and a Reader positioned at the start of its binary payload,
// ready to be handed to parser.NewDataParser (or DataParser).
func (f *File) Headers(i int) (*headers.Headers, *reader.Reader, error) {
	r, err := f.Reader(i)
	if err != nil {
		return nil, nil, err
	}

	h, err := headers.Parse(r, f.log)
	if err != nil {
		return nil, nil, fmt.Errorf("blackboxlog: parse headers for log %d: %w", i, err)
	}

	return h, r, nil
}

// DataParser parses log i's headers and returns a DataParser ready to
// stream its decoded frames via Next.
func (f *File) DataParser(i int) (*parser.DataParser, error) {
	h, r, err := f.Headers(i)
	if err != nil {
		return nil, err
	}

	return parser.NewDataParser(r, h, f.log), nil
}

// Open is a convenience combining Headers and DataParser: it parses log
// i's headers once and returns both the Headers and a DataParser built
// from them, so the caller can inspect header fields (craft name,
// firmware) alongside decoding frames.
//
// Example:
//
//	h, dp, err := file.Open(0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(h.CraftName)
//	for {
//	    ev, ok := dp.Next()
//	    ...
//	}
func (f *File) Open(i int) (*headers.Headers, *parser.DataParser, error) {
	h, r, err := f.Headers(i)
	if err != nil {
		return nil, nil, err
	}

	return h, parser.NewDataParser(r, h, f.log), nil
}

// FieldSeries decodes log i end to end and returns every Main-frame value
// of the named field (matched exactly against the Main frame definition's
// field names, index suffix included, e.g. "motor[0]") as a single int64
// column, signed
// or unsigned per the field's signed flag.
//
// This exists for quick one-off inspection; callers decoding many fields
// from the same log should instead drive a single DataParser themselves
// via Open, since FieldSeries re-parses headers and re-decodes every
// frame on each call.
func (f *File) FieldSeries(i int, name string) ([]int64, error) {
	h, r, err := f.Headers(i)
	if err != nil {
		return nil, err
	}

	idx := h.Intra.IndexOf(name)
	if idx < 0 {
		return nil, fmt.Errorf("blackboxlog: field %q not found in log %d", name, i)
	}

	dp := parser.NewDataParser(r, h, f.log)

	scratch, done := pool.GetInt64Slice(fieldSeriesBatchSize)
	defer done()

	var out []int64

	n := 0
	flush := func() {
		out = append(out, scratch[:n]...)
		n = 0
	}

	for {
		ev, ok := dp.Next()
		if !ok {
			break
		}

		if ev.Kind != parser.KindMain {
			continue
		}

		v, ok := ev.Frame.Get(idx)
		if !ok {
			continue
		}

		if n == len(scratch) {
			flush()
		}

		if v.Signed {
			scratch[n] = int64(v.Int32())
		} else {
			scratch[n] = int64(v.Uint32())
		}

		n++
	}

	flush()

	return out, nil
}
