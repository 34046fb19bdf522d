package record

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/sync/errgroup"

	"posecam/internal/host"
)

// Options configure a Recorder.
type Options struct {
	Dir      string
	Workers  int
	Progress io.Writer // nil disables progress lines
}

// Result is the outcome of one encoded frame.
type Result struct {
	Info  host.FrameInfo
	Image string // path relative to Dir
	Error string
}

// Recorder is a host.Sink that encodes frames to WebP on a bounded worker
// pool while the host keeps rendering.
type Recorder struct {
	dir string

	ctx   context.Context
	group *errgroup.Group

	mu      sync.Mutex
	results []Result

	queued    atomic.Int64
	processed atomic.Int64
	start     time.Time
	progress  io.Writer
	done      chan struct{}
	closeOnce sync.Once
}

// NewRecorder creates Dir and starts the progress reporter.
func NewRecorder(ctx context.Context, opts Options) (*Recorder, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("record: output directory is empty")
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	r := &Recorder{
		dir:      opts.Dir,
		ctx:      gctx,
		group:    g,
		start:    time.Now(),
		progress: opts.Progress,
		done:     make(chan struct{}),
	}
	if r.progress != nil {
		go r.report()
	}
	return r, nil
}

func (r *Recorder) report() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			p := r.processed.Load()
			if p > 0 {
				rate := float64(p) / time.Since(r.start).Seconds()
				fmt.Fprintf(r.progress, "  [%d/%d] %.1f frames/sec\n", p, r.queued.Load(), rate)
			}
		}
	}
}

// FrameName is the file name of frame n.
func FrameName(n int64) string {
	return fmt.Sprintf("frame_%05d.webp", n)
}

// Present copies img and schedules it for encoding. It blocks while every
// worker is busy and fails once the recording context is done.
func (r *Recorder) Present(img *image.NRGBA, info host.FrameInfo) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	frame := image.NewNRGBA(img.Bounds())
	copy(frame.Pix, img.Pix)

	r.mu.Lock()
	slot := len(r.results)
	r.results = append(r.results, Result{Info: info, Image: FrameName(info.Frame)})
	r.mu.Unlock()
	r.queued.Add(1)

	r.group.Go(func() error {
		defer r.processed.Add(1)
		err := encodeFile(filepath.Join(r.dir, FrameName(info.Frame)), frame)
		if err != nil {
			r.mu.Lock()
			r.results[slot].Error = err.Error()
			r.mu.Unlock()
		}
		return err
	})
	return nil
}

// Close waits for pending frames and returns the per-frame results in
// presentation order along with the first encoding error.
func (r *Recorder) Close() ([]Result, error) {
	err := r.group.Wait()
	r.closeOnce.Do(func() { close(r.done) })

	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Result, len(r.results))
	copy(out, r.results)
	return out, err
}

func encodeFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("WebP encode: %w", err)
	}
	return f.Close()
}
