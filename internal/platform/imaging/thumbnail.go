// Package imaging produces resized copies of recipe photos for cards.
package imaging

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither JPEG nor PNG.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrOutsideMediaDir is returned when a path escapes the media directory.
	ErrOutsideMediaDir = errors.New("image path outside media directory")
)

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

// Thumbnailer resizes photos from a media directory and caches the results on disk.
type Thumbnailer struct {
	mediaDir string
	cacheDir string
}

// NewThumbnailer creates a new Thumbnailer.
func NewThumbnailer(mediaDir, cacheDir string) *Thumbnailer {
	return &Thumbnailer{mediaDir: mediaDir, cacheDir: cacheDir}
}

// Thumbnail returns the path of src scaled to width pixels (aspect ratio
// kept). src is relative to the media directory. A cached copy is reused
// when present.
func (t *Thumbnailer) Thumbnail(ctx context.Context, src string, width uint) (string, error) {
	extension := strings.ToLower(filepath.Ext(src))
	if !allowedExtensions[extension] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, extension)
	}

	srcPath, err := t.resolve(src)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(t.cacheDir, cacheName(src, width)+extension)
	if _, err := os.Stat(outPath); err == nil {
		return outPath, nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	img = resize.Resize(width, 0, img, resize.Lanczos3)

	if err := os.MkdirAll(t.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Write to a temporary file first so concurrent requests never serve a
	// half-written thumbnail.
	tmp, err := os.CreateTemp(t.cacheDir, "thumb-*"+extension)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer os.Remove(tmp.Name())

	switch extension {
	case ".jpeg", ".jpg":
		err = jpeg.Encode(tmp, img, nil)
	case ".png":
		err = png.Encode(tmp, img)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return "", fmt.Errorf("failed to store thumbnail: %w", err)
	}
	return outPath, nil
}

func (t *Thumbnailer) resolve(src string) (string, error) {
	root, err := filepath.Abs(t.mediaDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve media directory: %w", err)
	}
	full, err := filepath.Abs(filepath.Join(root, filepath.FromSlash(src)))
	if err != nil {
		return "", fmt.Errorf("failed to resolve image path: %w", err)
	}
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideMediaDir, src)
	}
	return full, nil
}

func cacheName(src string, width uint) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s@%d", src, width)))
	return hex.EncodeToString(hash[:])
}

// IsRemote reports whether an image reference points at another host
// rather than the local media directory.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "data:")
}
