package scanner

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	inner  FrameSource
	closed atomic.Int32
}

func (c *countingSource) Next(ctx context.Context) (image.Image, error) { return c.inner.Next(ctx) }
func (c *countingSource) Close() error {
	c.closed.Add(1)
	return c.inner.Close()
}

type scriptedReader struct {
	mu      sync.Mutex
	answers []string
	pos     int
}

// Decode returns the scripted answers in order, an empty answer meaning no code.
func (r *scriptedReader) Decode(image.Image) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.answers) == 0 {
		return "", ErrNoCode
	}
	a := r.answers[r.pos%len(r.answers)]
	r.pos++
	if a == "" {
		return "", ErrNoCode
	}
	return a, nil
}

func blank() image.Image { return image.NewGray(image.Rect(0, 0, 4, 4)) }

func newTestDecoder(src FrameSource, r Reader) *Decoder {
	return NewDecoder(func() (FrameSource, error) { return src, nil },
		WithInterval(time.Millisecond), WithReader(r))
}

func TestDecoder_PushesTransientAndPayloadResults(t *testing.T) {
	src := &countingSource{inner: NewImageSource(blank())}
	d := newTestDecoder(src, &scriptedReader{answers: []string{"", "https://x/update-progress?progress=1"}})

	ch, err := d.Start(context.Background())
	require.NoError(t, err)

	first := <-ch
	assert.ErrorIs(t, first.Err, ErrNoCode)
	second := <-ch
	require.NoError(t, second.Err)
	assert.Equal(t, "https://x/update-progress?progress=1", second.Payload)

	d.Stop()
	assert.Equal(t, int32(1), src.closed.Load())
	assert.False(t, d.Running())

	_, ok := <-ch
	assert.False(t, ok, "channel must be closed after Stop")
}

func TestDecoder_StartWhileRunning(t *testing.T) {
	d := newTestDecoder(NewImageSource(blank()), &scriptedReader{})

	_, err := d.Start(context.Background())
	require.NoError(t, err)
	defer d.Stop()

	_, err = d.Start(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestDecoder_StopIsIdempotent(t *testing.T) {
	src := &countingSource{inner: NewImageSource(blank())}
	d := newTestDecoder(src, &scriptedReader{})

	d.Stop()

	_, err := d.Start(context.Background())
	require.NoError(t, err)
	d.Stop()
	d.Stop()

	assert.Equal(t, int32(1), src.closed.Load())
}

func TestDecoder_StopWithoutReader(t *testing.T) {
	// Nobody reads the channel; Stop must still return.
	src := &countingSource{inner: NewImageSource(blank())}
	d := newTestDecoder(src, &scriptedReader{answers: []string{"code"}})

	_, err := d.Start(context.Background())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		d.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked")
	}
	assert.Equal(t, int32(1), src.closed.Load())
}

// gatedSource holds Close until release is closed.
type gatedSource struct {
	countingSource
	release chan struct{}
}

func (g *gatedSource) Close() error {
	<-g.release
	return g.countingSource.Close()
}

func TestDecoder_ConcurrentStopWaitsForLoop(t *testing.T) {
	src := &gatedSource{
		countingSource: countingSource{inner: NewImageSource(blank())},
		release:        make(chan struct{}),
	}
	d := newTestDecoder(src, &scriptedReader{})

	_, err := d.Start(context.Background())
	require.NoError(t, err)

	var returned atomic.Int32
	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Stop()
			returned.Add(1)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), returned.Load(), "Stop returned before the source was closed")

	close(src.release)
	wg.Wait()
	assert.Equal(t, int32(2), returned.Load())
	assert.Equal(t, int32(1), src.closed.Load())
	assert.False(t, d.Running())
}

func TestDecoder_ParentContextCancel(t *testing.T) {
	src := &countingSource{inner: NewImageSource(blank())}
	d := newTestDecoder(src, &scriptedReader{})

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := d.Start(ctx)
	require.NoError(t, err)

	cancel()
	for range ch {
	}

	assert.False(t, d.Running())
	assert.Equal(t, int32(1), src.closed.Load())

	// Restart after the loop died on its own.
	src2 := &countingSource{inner: NewImageSource(blank())}
	d.open = func() (FrameSource, error) { return src2, nil }
	_, err = d.Start(context.Background())
	require.NoError(t, err)
	d.Stop()
	assert.Equal(t, int32(1), src2.closed.Load())
}

func TestDecoder_OpenError(t *testing.T) {
	boom := errors.New("no camera")
	d := NewDecoder(func() (FrameSource, error) { return nil, boom })

	_, err := d.Start(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, d.Running())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	const payload = "https://hunt.example/update-progress?progress=3"

	img, err := Encode(payload, 256)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, img.Bounds().Dx(), 256)

	got, err := DecodeOnce(img)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDecodeOnce_NoCode(t *testing.T) {
	_, err := DecodeOnce(image.NewGray(image.Rect(0, 0, 64, 64)))
	assert.ErrorIs(t, err, ErrNoCode)
}

func TestDecoder_RealReaderOverEncodedFrame(t *testing.T) {
	img, err := Encode("progress=1", 200)
	require.NoError(t, err)

	d := NewDecoder(func() (FrameSource, error) { return NewImageSource(img), nil }, WithInterval(time.Millisecond))
	ch, err := d.Start(context.Background())
	require.NoError(t, err)
	defer d.Stop()

	select {
	case res := <-ch:
		require.NoError(t, res.Err)
		assert.Equal(t, "progress=1", res.Payload)
	case <-time.After(5 * time.Second):
		t.Fatal("no result")
	}
}
