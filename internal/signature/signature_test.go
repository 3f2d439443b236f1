package signature

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actas-mantenimiento/internal/platform/dataurl"
	"actas-mantenimiento/internal/platform/imaging"
)

func TestPad_EmptyAndClear(t *testing.T) {
	p := NewPad(0, 0)
	assert.True(t, p.IsEmpty())
	assert.Equal(t, DefaultWidth, p.Width)

	_, err := p.DataURL()
	assert.ErrorIs(t, err, ErrEmpty)

	p.AddStroke()
	assert.True(t, p.IsEmpty(), "un trazo sin puntos no cuenta")

	p.AddStroke(Point{10, 10}, Point{50, 40})
	assert.False(t, p.IsEmpty())

	p.Clear()
	assert.True(t, p.IsEmpty())
	assert.Nil(t, p.Strokes())
}

func TestPad_RenderDrawsInk(t *testing.T) {
	p := FromStrokes(100, 50, []Stroke{
		{{X: 10, Y: 25}, {X: 90, Y: 25}},
		{{X: 50, Y: 5}},
	})

	img := p.Render()
	r, g, b, _ := img.At(50, 25).RGBA()
	assert.Less(t, r, uint32(0x8000))
	assert.Less(t, g, uint32(0x8000))
	assert.Less(t, b, uint32(0x8000))

	r, _, _, _ = img.At(5, 45).RGBA()
	assert.Equal(t, uint32(0xFFFF), r, "el fondo queda blanco")

	s, err := p.DataURL()
	require.NoError(t, err)

	mime, data, err := dataurl.Decode(s)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestPad_StrokesAreCopies(t *testing.T) {
	p := NewPad(10, 10)
	p.AddStroke(Point{1, 1}, Point{2, 2})

	got := p.Strokes()
	got[0][0].X = 99

	assert.Equal(t, 1.0, p.Strokes()[0][0].X)
}

func pngDataURL(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return dataurl.Encode("image/png", buf.Bytes())
}

func TestImage_BlankCanvasIsEmpty(t *testing.T) {
	blank := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			blank.Set(x, y, color.White)
		}
	}

	sig, err := FromDataURL(pngDataURL(t, blank))
	require.NoError(t, err)
	assert.True(t, sig.IsEmpty())

	transparent, err := FromDataURL(pngDataURL(t, image.NewRGBA(image.Rect(0, 0, 5, 5))))
	require.NoError(t, err)
	assert.True(t, transparent.IsEmpty())
}

func TestImage_WithInk(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	img.Set(3, 3, color.Black)

	sig, err := FromDataURL(pngDataURL(t, img))
	require.NoError(t, err)
	assert.False(t, sig.IsEmpty())
	assert.Nil(t, sig.Strokes())

	s, err := sig.DataURL()
	require.NoError(t, err)
	assert.Contains(t, s, "data:image/png;base64,")

	sig.Clear()
	assert.True(t, sig.IsEmpty())
}

func TestFromDataURL_Invalid(t *testing.T) {
	_, err := FromDataURL("data:image/png;base64,aG9sYQ==")
	assert.Error(t, err)

	empty, err := FromDataURL("")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestFromDataURL_BrokenPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	head := buf.Bytes()[:33]

	_, err := FromDataURL(dataurl.Encode("image/png", head))
	assert.ErrorIs(t, err, imaging.ErrNotImage)

	binary.BigEndian.PutUint32(head[16:], 100_000)
	binary.BigEndian.PutUint32(head[20:], 100_000)
	binary.BigEndian.PutUint32(head[29:], crc32.ChecksumIEEE(head[12:29]))
	_, err = FromDataURL(dataurl.Encode("image/png", head))
	assert.ErrorIs(t, err, imaging.ErrTooLarge)
}

func TestStrokes_UnmarshalJSON(t *testing.T) {
	want := Strokes{{{X: 1, Y: 2}, {X: 3, Y: 4}}}

	tests := []struct {
		name string
		in   string
		want Strokes
	}{
		{"arreglo", `[[{"x":1,"y":2},{"x":3,"y":4}]]`, want},
		{"string con json", `"[[{\"x\":1,\"y\":2},{\"x\":3,\"y\":4}]]"`, want},
		{"sin firma", `"No hay firma"`, nil},
		{"string vacío", `""`, nil},
		{"null", `null`, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got Strokes
			require.NoError(t, json.Unmarshal([]byte(tc.in), &got))
			assert.Equal(t, tc.want, got)
		})
	}

	var bad Strokes
	assert.Error(t, json.Unmarshal([]byte(`"no es json"`), &bad))
}
