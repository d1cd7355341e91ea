// Package refimage loads the optional reference picture shown next to the
// board editor. The picture is a visual aid only and never feeds the model.
package refimage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrEmptyPath   = errors.New("reference image path is empty")
	ErrUnsupported = errors.New("unsupported reference image")
)

// Extensions accepted by the file picker filter.
var Extensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".webp"}

// Image is a decoded reference picture.
type Image struct {
	Path   string
	Format string
	Bitmap image.Image
}

// Load reads and decodes the file at path.
func Load(path string) (*Image, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrEmptyPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference image: %w", err)
	}
	return Decode(path, data)
}

// Decode decodes raw bytes, recording name as the image path.
func Decode(name string, data []byte) (*Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupported, name, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("%w: %s: empty bitmap", ErrUnsupported, name)
	}
	return &Image{Path: name, Format: format, Bitmap: img}, nil
}

func (i *Image) Size() image.Point {
	if i == nil || i.Bitmap == nil {
		return image.Point{}
	}
	return i.Bitmap.Bounds().Size()
}

// FitSize returns the largest size with the source aspect ratio that fits in w x h.
func FitSize(src image.Point, w, h int) image.Point {
	if src.X <= 0 || src.Y <= 0 || w <= 0 || h <= 0 {
		return image.Point{}
	}
	// compare src.X/src.Y with w/h without floats
	if src.X*h > w*src.Y {
		return image.Pt(w, max(1, src.Y*w/src.X))
	}
	return image.Pt(max(1, src.X*h/src.Y), h)
}

// Fit scales the bitmap into a w x h box keeping the aspect ratio with
// Catmull-Rom resampling. A zero-sized box yields nil.
func (i *Image) Fit(w, h int) image.Image {
	if i == nil || i.Bitmap == nil {
		return nil
	}
	size := FitSize(i.Size(), w, h)
	if size.X == 0 || size.Y == 0 {
		return nil
	}
	dst := image.NewRGBA(image.Rectangle{Max: size})
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), i.Bitmap, i.Bitmap.Bounds(), xdraw.Src, nil)
	return dst
}
