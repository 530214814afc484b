package steg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the lossless compressor applied before error
// correction. Images produced with one setting only decode with the same one.
type Compression uint8

const (
	// CompressionZlib is a zlib stream, readable by any zlib implementation.
	CompressionZlib Compression = iota
	// CompressionZstd is a single zstd frame.
	CompressionZstd
	// CompressionLZ4 is an LZ4 block behind a mode byte and a varint length.
	CompressionLZ4
	// CompressionSnappy is a snappy block.
	CompressionSnappy
)

func (c Compression) String() string {
	switch c {
	case CompressionZlib:
		return "zlib"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	case CompressionSnappy:
		return "snappy"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compressor name as printed by String.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "zlib", "":
		return CompressionZlib, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	case "snappy":
		return CompressionSnappy, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", name)
	}
}

// zstd coders are safe for concurrent use and costly to build.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		// empty text still needs a frame to decode from
		zstd.WithZeroFrames(true))
	if err != nil {
		panic("steg: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(64<<20))
	if err != nil {
		panic("steg: zstd decoder initialization failed: " + err.Error())
	}
}

// LZ4 block modes. Both are nonzero so that a short message never starts
// with a zero run.
const (
	lz4Stored byte = 1
	lz4Block  byte = 2
)

var errTooLarge = errors.New("decompressed message too large")

func compress(c Compression, data []byte) ([]byte, error) {
	switch c {
	case CompressionZlib:
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("zlib compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("zlib compress: %w", err)
		}
		return buf.Bytes(), nil

	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, nil), nil

	case CompressionLZ4:
		return compressLZ4(data)

	case CompressionSnappy:
		return snappy.Encode(nil, data), nil

	default:
		return nil, fmt.Errorf("unsupported compression: %v", c)
	}
}

// decompress reverses compress, refusing output above maxSize bytes so that
// garbage segments cannot balloon.
func decompress(c Compression, data []byte, maxSize int) ([]byte, error) {
	switch c {
	case CompressionZlib:
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("zlib decompress: %w", err)
		}
		defer r.Close()
		out, err := io.ReadAll(io.LimitReader(r, int64(maxSize)+1))
		if err != nil {
			return nil, fmt.Errorf("zlib decompress: %w", err)
		}
		if len(out) > maxSize {
			return nil, errTooLarge
		}
		return out, nil

	case CompressionZstd:
		out, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(out) > maxSize {
			return nil, errTooLarge
		}
		return out, nil

	case CompressionLZ4:
		return decompressLZ4(data, maxSize)

	case CompressionSnappy:
		n, err := snappy.DecodedLen(data)
		if err != nil {
			return nil, fmt.Errorf("snappy decompress: %w", err)
		}
		if n > maxSize {
			return nil, errTooLarge
		}
		out, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("snappy decompress: %w", err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported compression: %v", c)
	}
}

// The LZ4 frame format ends with four zero bytes, which would read as a
// terminator, so messages use bare blocks with their own length header.
func compressLZ4(data []byte) ([]byte, error) {
	hdr := make([]byte, 1, 1+binary.MaxVarintLen64)
	hdr = binary.AppendUvarint(hdr, uint64(len(data)))

	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock reports 0 for incompressible input.
	if n == 0 || n >= len(data) {
		hdr[0] = lz4Stored
		return append(hdr, data...), nil
	}
	hdr[0] = lz4Block
	return append(hdr, dst[:n]...), nil
}

func decompressLZ4(data []byte, maxSize int) ([]byte, error) {
	if len(data) < 2 {
		return nil, errors.New("lz4 decompress: short input")
	}
	mode := data[0]
	size, k := binary.Uvarint(data[1:])
	if k <= 0 {
		return nil, errors.New("lz4 decompress: bad length")
	}
	if size > uint64(maxSize) {
		return nil, errTooLarge
	}
	body := data[1+k:]
	switch mode {
	case lz4Stored:
		if uint64(len(body)) != size {
			return nil, fmt.Errorf("lz4 decompress: stored %d bytes, header says %d", len(body), size)
		}
		return body, nil
	case lz4Block:
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if uint64(n) != size {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", n, size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("lz4 decompress: unknown mode %d", mode)
	}
}
