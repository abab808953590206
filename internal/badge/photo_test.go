package badge

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jpegBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestCircularAvatarDimensions(t *testing.T) {
	data := jpegBytes(t, 120, 200, color.RGBA{R: 200, A: 255})
	img, err := circularAvatar(data, 130)
	require.NoError(t, err)
	b := img.Bounds()
	assert.Equal(t, 130, b.Dx())
	assert.Equal(t, 130, b.Dy())
}

func TestCircularAvatarMasksCorners(t *testing.T) {
	data := jpegBytes(t, 100, 100, color.RGBA{R: 255, A: 255})
	img, err := circularAvatar(data, 100)
	require.NoError(t, err)

	// Outside the circle: fully transparent.
	_, _, _, a := img.At(1, 1).RGBA()
	assert.Zero(t, a)

	// Center: opaque photo content.
	_, _, _, a = img.At(50, 50).RGBA()
	assert.NotZero(t, a)
}

func TestCircularAvatarRejectsCorruptBytes(t *testing.T) {
	_, err := circularAvatar([]byte("definitely not a jpeg"), 100)
	require.Error(t, err)

	truncated := jpegBytes(t, 50, 50, color.White)[:20]
	_, err = circularAvatar(truncated, 100)
	require.Error(t, err)

	_, err = circularAvatar(nil, 100)
	require.Error(t, err)
}

func TestCropSquareBiased(t *testing.T) {
	// 100x200 portrait: square side 100, centered top would be 50, the
	// 10% bias moves it up to 40.
	src := image.NewNRGBA(image.Rect(0, 0, 100, 200))
	marker := color.NRGBA{R: 255, A: 255}
	for x := 0; x < 100; x++ {
		src.SetNRGBA(x, 40, marker)
	}

	out := cropSquareBiased(src)
	b := out.Bounds()
	require.Equal(t, 100, b.Dx())
	require.Equal(t, 100, b.Dy())

	r, _, _, a := out.At(50, 0).RGBA()
	assert.NotZero(t, r)
	assert.NotZero(t, a)
}

func TestCropSquareBiasedClampsAtTop(t *testing.T) {
	// Nearly square: the bias would push the crop above the image; it
	// clamps to the top edge instead.
	src := image.NewNRGBA(image.Rect(0, 0, 100, 101))
	out := cropSquareBiased(src)
	b := out.Bounds()
	assert.Equal(t, 100, b.Dx())
	assert.Equal(t, 100, b.Dy())
}

func TestCropSquareBiasedLandscape(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 300, 120))
	out := cropSquareBiased(src)
	b := out.Bounds()
	assert.Equal(t, 120, b.Dx())
	assert.Equal(t, 120, b.Dy())
}
