//go:build cgo

package ocr

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text with libtesseract through gosseract.
//
// A fresh client is created for every call; clients are not safe for concurrent
// use and carry per-image state, so reusing one buys little for band-sized
// inputs. The engine mode reaches every client through a small config file
// written on first use; Close removes it.
type Tesseract struct {
	opts          Options
	clientFactory func() *gosseract.Client

	configOnce sync.Once
	configPath string
	configErr  error
}

// NewTesseract returns a Tesseract recognizer configured by opts.
func NewTesseract(opts Options) *Tesseract {
	return &Tesseract{
		opts:          opts,
		clientFactory: gosseract.NewClient,
	}
}

// Recognize runs single-block recognition on img.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	configPath, err := t.engineConfigFile()
	if err != nil {
		return "", err
	}

	client := t.clientFactory()
	defer client.Close()

	if err := client.SetConfigFile(configPath); err != nil {
		return "", fmt.Errorf("failed to set engine mode: %w", err)
	}

	if t.opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.opts.TessdataPrefix); err != nil {
			return "", fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(t.opts.language()); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return text, nil
}

// engineConfigFile writes the engine mode config once and returns its path.
func (t *Tesseract) engineConfigFile() (string, error) {
	t.configOnce.Do(func() {
		f, err := os.CreateTemp("", "shotmail-tesseract-*.cfg")
		if err != nil {
			t.configErr = fmt.Errorf("failed to create engine config: %w", err)
			return
		}
		defer f.Close()

		if _, err := f.WriteString(engineConfig(t.opts.EngineMode)); err != nil {
			os.Remove(f.Name())
			t.configErr = fmt.Errorf("failed to write engine config: %w", err)
			return
		}
		t.configPath = f.Name()
	})
	return t.configPath, t.configErr
}

// Close removes the engine config file. The recognizer must not be used
// afterwards.
func (t *Tesseract) Close() error {
	if t.configPath == "" {
		return nil
	}
	if err := os.Remove(t.configPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove engine config: %w", err)
	}
	return nil
}

// Probe checks that the engine initializes with the configured language data.
func (t *Tesseract) Probe(ctx context.Context) error {
	if _, err := t.Recognize(ctx, probeImage()); err != nil {
		return fmt.Errorf("tesseract unavailable: %w", err)
	}
	return nil
}

// Version returns the linked libtesseract version.
func (t *Tesseract) Version() string {
	client := t.clientFactory()
	defer client.Close()
	return client.Version()
}
