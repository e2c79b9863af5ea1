package scanner

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

var (
	// ErrNoCode means a frame was read but contained no decodable QR code.
	ErrNoCode = errors.New("no code in frame")

	ErrAlreadyRunning = errors.New("decoder already running")
)

// DefaultInterval is the pause between two decode attempts.
const DefaultInterval = 250 * time.Millisecond

// Result is one decode attempt. Exactly one of Payload and Err is set.
type Result struct {
	Payload string
	Err     error
}

// Reader turns a frame into a decoded payload.
type Reader interface {
	Decode(img image.Image) (string, error)
}

// QRReader is the gozxing-backed Reader.
type QRReader struct {
	r     gozxing.Reader
	hints map[gozxing.DecodeHintType]interface{}
}

func NewQRReader() *QRReader {
	return &QRReader{
		r:     qrcode.NewQRCodeReader(),
		hints: map[gozxing.DecodeHintType]interface{}{gozxing.DecodeHintType_TRY_HARDER: true},
	}
}

func (q *QRReader) Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCode, err)
	}
	res, err := q.r.Decode(bmp, q.hints)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCode, err)
	}
	return res.GetText(), nil
}

// Opener acquires the frame source. It is called on every Start so the
// camera is only held while decoding is enabled.
type Opener func() (FrameSource, error)

type Option func(*Decoder)

func WithInterval(d time.Duration) Option {
	return func(dec *Decoder) { dec.interval = d }
}

// WithReader replaces the QR reader, mainly for tests.
func WithReader(r Reader) Option {
	return func(dec *Decoder) { dec.newReader = func() Reader { return r } }
}

// Decoder is a restartable, cancellable decode loop.
type Decoder struct {
	open      Opener
	newReader func() Reader
	interval  time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewDecoder(open Opener, opts ...Option) *Decoder {
	d := &Decoder{
		open:      open,
		newReader: func() Reader { return NewQRReader() },
		interval:  DefaultInterval,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start opens the source and begins decoding. The returned channel is closed
// when the loop exits, either through Stop or through ctx being cancelled.
func (d *Decoder) Start(ctx context.Context) (<-chan Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.runningLocked() {
		return nil, ErrAlreadyRunning
	}

	src, err := d.open()
	if err != nil {
		return nil, fmt.Errorf("open frame source: %w", err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	out := make(chan Result)
	done := make(chan struct{})

	d.cancel = cancel
	d.done = done

	go d.loop(loopCtx, src, d.newReader(), out, done)

	return out, nil
}

// Stop cancels the loop and blocks until it has exited and the source is
// closed. It is safe to call at any time, any number of times.
func (d *Decoder) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	// Concurrent callers all wait on done; only the first clears the run.
	d.mu.Lock()
	if d.done == done {
		d.cancel, d.done = nil, nil
	}
	d.mu.Unlock()
}

// Running reports whether the decode loop is alive.
func (d *Decoder) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runningLocked()
}

func (d *Decoder) runningLocked() bool {
	if d.done == nil {
		return false
	}
	select {
	case <-d.done:
		return false
	default:
		return true
	}
}

func (d *Decoder) loop(ctx context.Context, src FrameSource, reader Reader, out chan<- Result, done chan<- struct{}) {
	defer close(done)
	defer src.Close()
	defer close(out)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		res := d.attempt(ctx, src, reader)
		if ctx.Err() != nil {
			return
		}

		select {
		case out <- res:
		case <-ctx.Done():
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (d *Decoder) attempt(ctx context.Context, src FrameSource, reader Reader) Result {
	frame, err := src.Next(ctx)
	if err != nil {
		return Result{Err: err}
	}
	payload, err := reader.Decode(frame)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Payload: payload}
}

// DecodeOnce decodes a single image, used for the "scan <file>" command.
func DecodeOnce(img image.Image) (string, error) {
	return NewQRReader().Decode(img)
}
