package imaging

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	return img
}

func TestNormalize_KeepsJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(40, 30), nil))

	mime, out, info, err := Normalize(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	assert.Equal(t, buf.Bytes(), out)
	assert.Equal(t, Info{Format: "jpeg", Width: 40, Height: 30}, info)
	assert.InDelta(t, 0.75, info.Ratio(), 1e-9)
}

func TestNormalize_TranscodesBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, solid(10, 20)))

	mime, out, info, err := Normalize(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, "png", info.Format)

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 20, cfg.Height)
}

func TestNormalize_RejectsText(t *testing.T) {
	_, _, _, err := Normalize([]byte("no soy una imagen"))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestInfo_RatioFallback(t *testing.T) {
	assert.InDelta(t, 0.75, Info{}.Ratio(), 1e-9)
}

// pngHeader devuelve firma + IHDR de un PNG válido de w x h, sin IDAT.
func pngHeader(t *testing.T, w, h uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(1, 1)))
	b := buf.Bytes()[:33]
	binary.BigEndian.PutUint32(b[16:], w)
	binary.BigEndian.PutUint32(b[20:], h)
	binary.BigEndian.PutUint32(b[29:], crc32.ChecksumIEEE(b[12:29]))
	return b
}

func TestNormalize_RejectsTruncatedPNG(t *testing.T) {
	data := pngHeader(t, 4, 4)

	_, err := Sniff(data)
	require.NoError(t, err, "la cabecera sola es válida")

	_, _, _, err = Normalize(data)
	assert.ErrorIs(t, err, ErrNotImage)

	_, _, err = Decode(data)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestSniff_RejectsHugeDimensions(t *testing.T) {
	data := pngHeader(t, 100_000, 100_000)

	_, err := Sniff(data)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, _, _, err = Normalize(data)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, _, err = Decode(data)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestDecode_KeepsInfo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(7, 3)))

	img, info, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, Info{Format: "png", Width: 7, Height: 3}, info)
	assert.Equal(t, 7, img.Bounds().Dx())
}
