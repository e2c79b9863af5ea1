package scanner

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrNoFrame is returned by a FrameSource that has nothing to offer right
// now. The decoder treats it as a transient failure.
var ErrNoFrame = errors.New("no frame available")

// FrameSource yields video frames. Close releases the underlying device and
// is called exactly once by the Decoder.
type FrameSource interface {
	Next(ctx context.Context) (image.Image, error)
	Close() error
}

var frameExtensions = map[string]struct{}{".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}}

// DirSource reads frames from a directory that a capture tool keeps
// filling (for example `ffmpeg -i /dev/video0 -vf fps=2 frames/%04d.png`).
// Each call to Next returns the newest image file that has not been read yet.
type DirSource struct {
	dir string

	mu     sync.Mutex
	seen   map[string]struct{}
	closed bool
}

func NewDirSource(dir string) (*DirSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("frames dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("frames dir: %s is not a directory", dir)
	}
	return &DirSource{dir: dir, seen: make(map[string]struct{})}, nil
}

func (s *DirSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, os.ErrClosed
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := frameExtensions[strings.ToLower(filepath.Ext(e.Name()))]; !ok {
			continue
		}
		if _, ok := s.seen[e.Name()]; ok {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, ErrNoFrame
	}

	sort.Strings(names)
	newest := names[len(names)-1]
	for _, n := range names {
		s.seen[n] = struct{}{}
	}

	return decodeImageFile(filepath.Join(s.dir, newest))
}

func (s *DirSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.seen = nil
	return nil
}

// ImageSource replays a fixed list of frames in a loop.
type ImageSource struct {
	mu     sync.Mutex
	frames []image.Image
	pos    int
	closed bool
}

func NewImageSource(frames ...image.Image) *ImageSource {
	return &ImageSource{frames: frames}
}

// NewFileSource loads a single image file as a one-frame source.
func NewFileSource(path string) (*ImageSource, error) {
	img, err := decodeImageFile(path)
	if err != nil {
		return nil, err
	}
	return NewImageSource(img), nil
}

func (s *ImageSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, os.ErrClosed
	}
	if len(s.frames) == 0 {
		return nil, ErrNoFrame
	}
	img := s.frames[s.pos%len(s.frames)]
	s.pos++
	return img, nil
}

func (s *ImageSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
