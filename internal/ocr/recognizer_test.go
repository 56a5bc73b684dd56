package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func TestOptionsLanguage(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"default", Options{}, "eng"},
		{"explicit", Options{Language: "deu"}, "deu"},
		{"combined", Options{Language: "eng+fra"}, "eng+fra"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.language(); got != tt.want {
				t.Errorf("language() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 12, 7))
	img.Set(3, 4, color.RGBA{10, 20, 30, 255})

	data, err := encodePNG(img)
	if err != nil {
		t.Fatalf("encodePNG failed: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 12 || decoded.Bounds().Dy() != 7 {
		t.Errorf("dimensions: got %dx%d, want 12x7", decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
	r, g, b, _ := decoded.At(3, 4).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("pixel: got (%d,%d,%d), want (10,20,30)", r>>8, g>>8, b>>8)
	}
}

func TestProbeImage(t *testing.T) {
	img := probeImage()
	if img.Bounds().Empty() {
		t.Fatal("probe image is empty")
	}
	r, _, _, _ := img.At(0, 0).RGBA()
	if r>>8 != 255 {
		t.Errorf("probe image should be white, got %d", r>>8)
	}
}

func TestParseEngineMode(t *testing.T) {
	tests := []struct {
		name    string
		want    EngineMode
		wantOEM int
		wantErr bool
	}{
		{"", EngineLSTM, 1, false},
		{"lstm", EngineLSTM, 1, false},
		{" LSTM ", EngineLSTM, 1, false},
		{"default", EngineDefault, 3, false},
		{"legacy", EngineLegacy, 0, false},
		{"combined", EngineCombined, 2, false},
		{"neural", EngineLSTM, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEngineMode(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEngineMode(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseEngineMode(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if got.oem() != tt.wantOEM {
				t.Errorf("oem() = %d, want %d", got.oem(), tt.wantOEM)
			}
		})
	}
}

func TestEngineConfig(t *testing.T) {
	if got := engineConfig(Options{}.EngineMode); got != "tessedit_ocr_engine_mode 1\n" {
		t.Errorf("zero options: got %q", got)
	}
	if got := engineConfig(EngineDefault); !strings.HasSuffix(got, " 3\n") {
		t.Errorf("default engine: got %q", got)
	}
}
