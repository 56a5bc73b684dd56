package imaging

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createInMemoryImage returns a width x height image filled with c.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// writePNG encodes img as a PNG file named name inside dir and returns its path.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", name, err)
	}
	return path
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	img := createInMemoryImage(4, 4, color.White)

	writePNG(t, dir, "b.png", img)
	writePNG(t, dir, "a.png", img)

	jpgPath := filepath.Join(dir, "c.jpg")
	f, err := os.Create(jpgPath)
	if err != nil {
		t.Fatalf("failed to create jpg: %v", err)
	}
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatalf("failed to encode jpg: %v", err)
	}
	f.Close()

	// Ignored: other extensions, upper-case extensions and directories.
	for _, name := range []string{"notes.txt", "d.gif", "e.jpeg", "F.PNG"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	paths, err := ListImages(dir)
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "c.jpg"),
	}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths %v, want %d", len(paths), paths, len(want))
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d]: got %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestListImages_Empty(t *testing.T) {
	paths, err := ListImages(t.TempDir())
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("expected no images, got %v", paths)
	}
}

func TestListImages_MissingDirectory(t *testing.T) {
	_, err := ListImages(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("ListImages should fail for a missing directory")
	}
}

func TestListImages_NotADirectory(t *testing.T) {
	path := writePNG(t, t.TempDir(), "single.png", createInMemoryImage(2, 2, color.White))
	if _, err := ListImages(path); err == nil {
		t.Error("ListImages should fail when given a file")
	}
}

func TestLoad(t *testing.T) {
	path := writePNG(t, t.TempDir(), "shot.png", createInMemoryImage(30, 20, color.Black))

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 20 {
		t.Errorf("dimensions: got %dx%d, want 30x20", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestLoad_NonExistent(t *testing.T) {
	if _, err := Load("/nonexistent/path/to/image.png"); err == nil {
		t.Error("Load should fail for non-existent file")
	}
}

func TestLoad_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load should fail for invalid image data")
	}
}
