// Package qrcodes renders the printable waypoint codes.
package qrcodes

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/dmitrijs2005/schnitzeljagd/internal/scanner"
)

const DefaultSize = 512

// FileName is the image name for waypoint k.
func FileName(k int) string {
	return fmt.Sprintf("waypoint_%02d.png", k)
}

// Write renders one PNG per waypoint 1..n into dir and returns the paths in
// order. Each code carries the progress URL under baseURL.
func Write(dir, baseURL string, n, size int) ([]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("waypoint count must be positive, got %d", n)
	}
	if size <= 0 {
		size = DefaultSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, n)
	for k := 1; k <= n; k++ {
		path := filepath.Join(dir, FileName(k))
		if err := writeOne(path, hunt.PayloadFor(baseURL, k), size); err != nil {
			return nil, fmt.Errorf("waypoint %d: %w", k, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeOne(path, payload string, size int) error {
	img, err := scanner.Encode(payload, size)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
