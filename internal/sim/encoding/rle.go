// Package encoding packs occupancy grids for the observer stream.
package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// Grid encodings. Both iterate rows top to bottom, x fastest, one value per
// cell (0 walkable, 1 blocked).
const (
	// Raw is base64 of one byte per cell.
	Raw = "U8_ROWMAJOR_B64"
	// RLE is base64 of (value, run_len) uvarint pairs.
	RLE = "U8_RLE_B64"
)

func Supported(enc string) bool { return enc == Raw || enc == RLE }

func EncodeGrid(enc string, cells []uint8) (string, error) {
	switch enc {
	case Raw:
		return base64.StdEncoding.EncodeToString(cells), nil
	case RLE:
		return EncodeRLE(cells), nil
	default:
		return "", fmt.Errorf("unsupported grid encoding %q", enc)
	}
}

// DecodeGrid reverses EncodeGrid and checks that exactly n cells come back.
func DecodeGrid(enc, data string, n int) ([]uint8, error) {
	var (
		out []uint8
		err error
	)
	switch enc {
	case Raw:
		out, err = base64.StdEncoding.DecodeString(data)
	case RLE:
		out, err = DecodeRLE(data)
	default:
		return nil, fmt.Errorf("unsupported grid encoding %q", enc)
	}
	if err != nil {
		return nil, err
	}
	if len(out) != n {
		return nil, fmt.Errorf("grid has %d cells, want %d", len(out), n)
	}
	return out, nil
}

func EncodeRLE(cells []uint8) string {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	i := 0
	for i < len(cells) {
		v := cells[i]
		run := 1
		for j := i + 1; j < len(cells) && cells[j] == v; j++ {
			run++
		}

		n := binary.PutUvarint(tmp[:], uint64(v))
		buf.Write(tmp[:n])
		n = binary.PutUvarint(tmp[:], uint64(run))
		buf.Write(tmp[:n])

		i += run
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// maxCells bounds decoded output so a hostile run length cannot exhaust memory.
const maxCells = 1 << 24

func DecodeRLE(b64 string) ([]uint8, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	var out []uint8
	for i := 0; i < len(raw); {
		v, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		if v > 0xFF {
			return nil, fmt.Errorf("cell value too large: %d", v)
		}
		if run == 0 || uint64(len(out))+run > maxCells {
			return nil, fmt.Errorf("bad run length %d at %d", run, i)
		}
		out = append(out, bytes.Repeat([]byte{uint8(v)}, int(run))...)
	}
	return out, nil
}
