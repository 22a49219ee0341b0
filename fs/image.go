// Package fs provides file-based loading of flyer images and storage of
// extracted events.
package fs

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"

	// Register decoders for the formats flyers are commonly shared in.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/fwojciec/eventboard"
)

// JPEGQuality is the quality used when re-encoding images for the model.
const JPEGQuality = 90

// Ensure ImageLoader implements eventboard.Loader at compile time.
var _ eventboard.Loader = (*ImageLoader)(nil)

// ImageLoader reads flyer images from disk.
type ImageLoader struct{}

// NewImageLoader creates a new ImageLoader.
func NewImageLoader() *ImageLoader {
	return &ImageLoader{}
}

// Load decodes the image at path and returns it re-encoded as an opaque
// JPEG. Transparent areas are flattened onto white.
func (l *ImageLoader) Load(ctx context.Context, path string) (*eventboard.Request, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, eventboard.Errorf(eventboard.ENOTFOUND, "image file not found: %s", path)
	} else if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, eventboard.Errorf(eventboard.EINVALID, "image path is a directory: %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, eventboard.Errorf(eventboard.EINVALID, "cannot decode image %s: %v", path, err)
	}

	data, err := EncodeJPEG(src)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	return &eventboard.Request{
		Source: eventboard.Source{Type: eventboard.SourceImage, Data: path},
		Image: &eventboard.Image{
			Data:     data,
			MIMEType: "image/jpeg",
			Width:    bounds.Dx(),
			Height:   bounds.Dy(),
			Format:   format,
		},
	}, nil
}

// EncodeJPEG draws img over a white background and encodes the result as
// JPEG.
func EncodeJPEG(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, eventboard.Errorf(eventboard.EINTERNAL, "encoding JPEG: %v", err)
	}
	return buf.Bytes(), nil
}
