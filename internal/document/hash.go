package document

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"image"
	"strings"

	// Register decoders for the formats OCR providers emit. PNG and JPEG
	// cover the common case; scanned plans occasionally carry TIFF or BMP.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// NormalizeText folds a block's text for content hashing: trim, collapse
// internal whitespace runs, lowercase. OCR noise in whitespace must not
// create spurious uniqueness.
func NormalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// HashText returns the stable content hash of a block's normalized text.
func HashText(s string) string {
	sum := sha256.Sum256([]byte(NormalizeText(s)))
	return hex.EncodeToString(sum[:])
}

// HashImage returns the content hash of an image's decoded pixel payload.
// Byte-identical pixels hash identically even when the provider re-encoded
// the image differently. Undecodable payloads fall back to hashing the raw
// bytes so the hash is still deterministic.
func HashImage(data []byte) string {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:])
	}

	h := sha256.New()
	bounds := img.Bounds()
	var buf [8]byte
	binary.BigEndian.PutUint32(buf[:4], uint32(bounds.Dx()))
	binary.BigEndian.PutUint32(buf[4:], uint32(bounds.Dy()))
	h.Write(buf[:])

	var px [8]byte
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			binary.BigEndian.PutUint16(px[0:2], uint16(r))
			binary.BigEndian.PutUint16(px[2:4], uint16(g))
			binary.BigEndian.PutUint16(px[4:6], uint16(b))
			binary.BigEndian.PutUint16(px[6:8], uint16(a))
			h.Write(px[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
