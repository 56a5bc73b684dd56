//go:build !cgo

package ocr

import (
	"context"
	"image"
)

// Tesseract is the cgo-less stand-in for the gosseract recognizer. Every call
// fails with ErrUnavailable.
type Tesseract struct {
	opts Options
}

// NewTesseract returns a recognizer that reports ErrUnavailable.
func NewTesseract(opts Options) *Tesseract {
	return &Tesseract{opts: opts}
}

// Recognize always fails with ErrUnavailable.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	return "", ErrUnavailable
}

// Probe always fails with ErrUnavailable.
func (t *Tesseract) Probe(ctx context.Context) error {
	return ErrUnavailable
}

// Close is a no-op.
func (t *Tesseract) Close() error {
	return nil
}

// Version reports that no engine is linked.
func (t *Tesseract) Version() string {
	return "unavailable"
}
