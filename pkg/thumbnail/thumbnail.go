// Package thumbnail renders width-bounded copies of JPEG, PNG and GIF images.
package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrImageTooLarge     = errors.New("image dimensions out of range")
)

const (
	jpegQuality = 85

	// MaxPixels bounds the decoded size; headers are checked before any
	// pixel buffer is allocated.
	MaxPixels = 40_000_000
)

// Resize decodes src and re-encodes it in the same format scaled to width,
// keeping the aspect ratio. Images already narrower than width are
// re-encoded unscaled.
func Resize(src io.Reader, width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("invalid width %d", width)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("decode image: %w", err)
	}

	out := scale(img, width)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality})
	case "png":
		err = png.Encode(&buf, out)
	case "gif":
		err = gif.Encode(&buf, out, nil)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}

	return buf.Bytes(), nil
}

func scale(img image.Image, width int) image.Image {
	b := img.Bounds()
	if b.Dx() <= width {
		return img
	}

	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	return dst
}
