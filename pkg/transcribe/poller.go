package transcribe

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"video-transcriber/pkg/assemblyai"
	"video-transcriber/pkg/domain"
)

// ErrPollerStopped is returned by Enqueue after the poller's context ended.
var ErrPollerStopped = errors.New("poller is stopped")

const (
	defaultInterval  = 5 * time.Second
	defaultWorkers   = 4
	defaultQueueSize = 64
)

// PollerConfig wires the poller dependencies.
type PollerConfig struct {
	Store    Store
	Provider Provider
	// Interval between status checks for one job. Defaults to 5s.
	Interval time.Duration
	// Workers caps how many jobs are polled concurrently. Defaults to 4.
	Workers int
	// QueueSize is the capacity of the pending-job queue. Defaults to 64.
	QueueSize int
}

// Poller drives the poll loop for outstanding transcription jobs in a fixed
// pool of workers. Each job is polled until the provider reports a terminal
// status or a transport error occurs; the poller's context cancels every wait,
// so process shutdown stops all loops promptly.
type Poller struct {
	store    Store
	provider Provider
	interval time.Duration
	workers  int

	jobs chan domain.Video
	wg   sync.WaitGroup

	mu  sync.Mutex
	ctx context.Context
}

func NewPoller(cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	return &Poller{
		store:    cfg.Store,
		provider: cfg.Provider,
		interval: cfg.Interval,
		workers:  cfg.Workers,
		jobs:     make(chan domain.Video, cfg.QueueSize),
	}
}

// Start launches the worker pool. The context bounds the lifetime of every
// poll loop; Wait blocks until all workers have drained after cancellation.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	p.ctx = ctx
	p.mu.Unlock()

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case video := <-p.jobs:
					p.poll(ctx, video)
				}
			}
		}()
	}
}

// Wait blocks until all poll workers have exited.
func (p *Poller) Wait() {
	p.wg.Wait()
}

// Enqueue schedules a submitted job for polling. The caller is not blocked by
// the poll loop itself and never learns its outcome directly; the video's
// persisted status is the only failure channel. When the queue is saturated,
// the caller's context bounds the wait for a free slot.
func (p *Poller) Enqueue(ctx context.Context, video domain.Video) error {
	p.mu.Lock()
	pollerCtx := p.ctx
	p.mu.Unlock()
	if pollerCtx == nil {
		return ErrPollerStopped
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-pollerCtx.Done():
		return ErrPollerStopped
	case p.jobs <- video:
		return nil
	}
}

// poll checks the provider until a terminal status is observed, then performs
// exactly one terminal write. A transport error while polling also moves the
// job to failed; no distinction is made in the status enum, but the detail is
// kept on the record.
func (p *Poller) poll(ctx context.Context, video domain.Video) {
	for {
		transcript, err := p.provider.GetTranscript(ctx, video.TranscriptID)
		if err != nil {
			// Shutdown cancels in-flight calls; that is not a job failure.
			if ctx.Err() != nil {
				return
			}
			p.fail(ctx, video, err.Error())
			return
		}

		switch transcript.Status {
		case assemblyai.StatusCompleted:
			p.complete(ctx, video, transcript.Text)
			return
		case assemblyai.StatusError:
			log.Printf("transcription %s failed at provider: %s", video.TranscriptID, transcript.Error)
			p.fail(ctx, video, transcript.Error)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(p.interval):
		}
	}
}

func (p *Poller) complete(ctx context.Context, video domain.Video, transcription string) {
	terminal, err := domain.Complete(video, transcription)
	if err != nil {
		log.Printf("transcription %s: refusing terminal write: %v", video.TranscriptID, err)
		return
	}
	p.persistTerminal(ctx, terminal)
}

// fail moves the job to failed. The provider may omit the error detail; the
// record still ends up failed, just without a cause.
func (p *Poller) fail(ctx context.Context, video domain.Video, detail string) {
	terminal, err := domain.Fail(video, detail)
	if err != nil {
		log.Printf("transcription %s: refusing terminal write: %v", video.TranscriptID, err)
		return
	}
	p.persistTerminal(ctx, terminal)
}

func (p *Poller) persistTerminal(ctx context.Context, terminal domain.Video) {
	if err := p.store.UpdateVideo(ctx, terminal); err != nil {
		// The terminal decision is lost if this write fails; the record stays
		// processing until a manual retry.
		log.Printf("transcription %s: persist %s status: %v", terminal.TranscriptID, terminal.Status, err)
	}
}
