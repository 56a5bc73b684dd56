package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"
)

// imageExtensions lists the screenshot extensions considered by ListImages.
// Matching is case-sensitive, the same as a "*.png" glob on Linux.
var imageExtensions = map[string]bool{
	".png": true,
	".jpg": true,
}

// ListImages returns the screenshot files in dir, sorted by name.
//
// Parameters:
//   - dir: Directory to scan. Subdirectories are not descended into.
//
// Returns:
//   - []string: Paths (dir joined with the file name) of every regular file
//     ending in ".png" or ".jpg". Other files are ignored silently.
//   - error: Non-nil if dir does not exist, is not a directory, or cannot be read.
func ListImages(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat image directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("image path %s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !imageExtensions[filepath.Ext(entry.Name())] {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	return paths, nil
}

// Load opens and decodes a single screenshot.
//
// Parameters:
//   - path: File path of a PNG or JPEG image.
//
// Returns:
//   - image.Image: The decoded image. JPEG EXIF orientation is applied so text
//     rows are horizontal.
//   - error: Non-nil if the file does not exist or is not a decodable image.
func Load(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return img, nil
}
