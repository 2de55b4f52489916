package loaders

import (
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// LoadImage loads a PNG, JPEG or BMP image as RGBA pixels
func LoadImage(filename string) (*image.RGBA, error) {
	img, err := imgio.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load image %s", filename)
	}
	return clone.AsRGBA(img), nil
}

// encoderFor picks an encoder from the file extension
func encoderFor(filename string) (imgio.Encoder, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".png":
		return imgio.PNGEncoder(), nil
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(95), nil
	case ".bmp":
		return bmp.Encode, nil
	default:
		return nil, errors.Errorf("unsupported image extension %q", ext)
	}
}

// SaveImage writes img to filename, choosing PNG, JPEG or BMP from the
// extension
func SaveImage(img image.Image, filename string) error {
	encoder, err := encoderFor(filename)
	if err != nil {
		return err
	}
	if err := imgio.Save(filename, img, encoder); err != nil {
		return errors.Wrapf(err, "failed to save image %s", filename)
	}
	return nil
}

// SaveThumbnail scales img to width pixels, keeping its aspect ratio, and
// saves it like SaveImage
func SaveThumbnail(img image.Image, filename string, width int) error {
	if width <= 0 {
		return errors.Errorf("invalid thumbnail width %d", width)
	}
	thumb := resize.Resize(uint(width), 0, img, resize.Lanczos3)
	return SaveImage(thumb, filename)
}
