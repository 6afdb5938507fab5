package chart

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"math"
)

// pngHeaderLen covers the signature and the IHDR chunk, which PNG requires first.
const pngHeaderLen = 8 + 4 + 4 + 13 + 4

// withPhysicalDPI inserts a pHYs chunk after IHDR so viewers read the
// resolution back as dpi.
func withPhysicalDPI(data []byte, dpi int) ([]byte, error) {
	if len(data) < pngHeaderLen || string(data[12:16]) != "IHDR" {
		return nil, errors.New("encoded chart is not a PNG")
	}
	perMetre := uint32(math.Round(float64(dpi) / 0.0254))

	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:4], 9)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], perMetre)
	binary.BigEndian.PutUint32(chunk[12:16], perMetre)
	chunk[16] = 1 // unit: metre
	binary.BigEndian.PutUint32(chunk[17:21], crc32.ChecksumIEEE(chunk[4:17]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:pngHeaderLen]...)
	out = append(out, chunk...)
	return append(out, data[pngHeaderLen:]...), nil
}
