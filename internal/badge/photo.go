package badge

import (
	"bytes"
	"errors"
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// circularAvatar turns arbitrary photo bytes into a px-square circular
// avatar on a transparent canvas.
func circularAvatar(data []byte, px int) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("no photo data")
	}
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return avatarFromImage(src, px), nil
}

// circularAvatarFile is the placeholder path: same pipeline, file source.
func circularAvatarFile(path string, px int) (image.Image, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	return avatarFromImage(src, px), nil
}

func avatarFromImage(src image.Image, px int) image.Image {
	src = imaging.AdjustBrightness(src, 3)

	// Upscale 2x before cropping for smoother resampling.
	b := src.Bounds()
	src = imaging.Resize(src, b.Dx()*2, b.Dy()*2, imaging.Lanczos)

	src = cropSquareBiased(src)
	src = imaging.Resize(src, px, px, imaging.Lanczos)

	dc := gg.NewContext(px, px)
	dc.DrawCircle(float64(px)/2, float64(px)/2, float64(px)/2)
	dc.Clip()
	dc.DrawImage(src, 0, 0)
	return dc.Image()
}

// cropSquareBiased crops the largest centered square, shifted up by 10% of
// the side so faces are not cut at the chin. The bias is intentional; keep
// it when touching this.
func cropSquareBiased(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	side := w
	if h < side {
		side = h
	}
	left := (w - side) / 2
	top := (h-side)/2 - side/10
	if top < 0 {
		top = 0
	}
	return imaging.Crop(src, image.Rect(left, top, left+side, top+side))
}
