package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
)

// ErrUnavailable is returned when the binary was built without Tesseract support.
var ErrUnavailable = errors.New("ocr: tesseract support not compiled in (build with CGO_ENABLED=1)")

// Recognizer converts an image into text.
type Recognizer interface {
	// Recognize returns the text found in img. An empty string with a nil
	// error means no text was recognized.
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// EngineMode selects the Tesseract recognition engine (the --oem setting).
type EngineMode int

const (
	// EngineLSTM is the neural-net line recognizer (--oem 1). It is the zero
	// value.
	EngineLSTM EngineMode = iota

	// EngineDefault lets the language data decide (--oem 3).
	EngineDefault

	// EngineLegacy is the pattern-matching engine (--oem 0). It needs
	// traineddata that still ships the legacy model.
	EngineLegacy

	// EngineCombined runs both engines (--oem 2).
	EngineCombined
)

// ParseEngineMode maps a configuration name to an EngineMode. Names are
// "lstm", "default", "legacy" and "combined"; empty means lstm.
func ParseEngineMode(name string) (EngineMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lstm":
		return EngineLSTM, nil
	case "default":
		return EngineDefault, nil
	case "legacy":
		return EngineLegacy, nil
	case "combined":
		return EngineCombined, nil
	}
	return EngineLSTM, fmt.Errorf("ocr: unknown engine mode %q", name)
}

// oem returns the numeric tessedit_ocr_engine_mode value.
func (m EngineMode) oem() int {
	switch m {
	case EngineDefault:
		return 3
	case EngineLegacy:
		return 0
	case EngineCombined:
		return 2
	default:
		return 1
	}
}

// Options configures the Tesseract recognizer.
type Options struct {
	// Language is the Tesseract language code, e.g. "eng" or "eng+deu".
	Language string

	// TessdataPrefix overrides the directory holding *.traineddata files.
	// Empty means the library default (TESSDATA_PREFIX or the build prefix).
	TessdataPrefix string

	// EngineMode is applied at engine initialization.
	EngineMode EngineMode
}

func (o Options) language() string {
	if o.Language == "" {
		return DefaultLanguage
	}
	return o.Language
}

// engineConfig is the Tesseract config file content that pins the engine
// mode. tessedit_ocr_engine_mode is init-only, so it cannot be set as a
// runtime variable.
func engineConfig(m EngineMode) string {
	return fmt.Sprintf("tessedit_ocr_engine_mode %d\n", m.oem())
}

// encodePNG serializes img for engines that consume encoded bytes.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode band: %w", err)
	}
	return buf.Bytes(), nil
}

// probeImage is the blank canvas used by Probe.
func probeImage() image.Image {
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	return img
}
