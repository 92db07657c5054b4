package service

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"

	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
)

type ImageProcessor interface {
	Process(r io.Reader) ([]byte, error)
}

// JPEGProcessor decodes any supported upload, fits it into a square box and
// re-encodes it as JPEG. The re-encode also strips metadata.
type JPEGProcessor struct {
	MaxSide int
	Quality int
}

func NewJPEGProcessor() JPEGProcessor {
	return JPEGProcessor{MaxSide: 800, Quality: 85}
}

func (p JPEGProcessor) Process(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		v := &apperr.ValidationError{}
		v.Add("image", "must be a JPEG, PNG, GIF, BMP or TIFF image")
		return nil, v
	}

	bounds := img.Bounds()
	if bounds.Dx() > p.MaxSide || bounds.Dy() > p.MaxSide {
		img = imaging.Fit(img, p.MaxSide, p.MaxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.Quality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

var _ ImageProcessor = JPEGProcessor{}
