// Package views holds the per-page state behind the CRM and portal screens:
// parallel loading, search and status filtering, modal state and the submit
// flow. Controllers are safe for concurrent use and stop applying results
// once closed.
package views

import (
	"context"
	"errors"
	"sync"

	"facility_crm_backend/internal/services"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrSubmitInProgress rejects a submit while another one is outstanding.
	ErrSubmitInProgress = errors.New("a submit is already in progress")
	// ErrClosed is returned by controllers after Close.
	ErrClosed = errors.New("view is closed")
)

// Notice is an inline message shown on the page. Only authorization notices
// are expected to send the user elsewhere.
type Notice struct {
	Kind    services.ErrorKind `json:"kind"`
	Message string             `json:"message"`
}

// NoticeFor turns a failed call into a Notice.
func NoticeFor(err error) Notice {
	return Notice{Kind: services.KindOf(err), Message: err.Error()}
}

// loadStep fetches one piece of page data. The returned apply func runs under
// the page lock once every step has settled.
type loadStep func(ctx context.Context) (apply func(), err error)

// page is the lifecycle shared by every controller.
type page struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	closed  bool
	loading bool
	notices []Notice
}

func (p *page) init(parent context.Context) {
	p.ctx, p.cancel = context.WithCancel(parent)
}

// Close cancels in-flight calls. Results that arrive afterwards are dropped.
func (p *page) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cancel()
}

// bind derives a context that is also cancelled when the page closes.
func (p *page) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(p.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// load runs steps in parallel and waits for all of them, so one failure
// neither cancels nor hides the others. Every failure becomes a notice;
// finish runs after the successful results are applied. The first error is
// returned.
func (p *page) load(ctx context.Context, finish func(), steps ...loadStep) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.loading = true
	p.notices = nil
	p.mu.Unlock()

	ctx, stop := p.bind(ctx)
	defer stop()

	applies := make([]func(), len(steps))
	errs := make([]error, len(steps))
	var g errgroup.Group
	for i, step := range steps {
		i, step := i, step
		g.Go(func() error {
			applies[i], errs[i] = step(ctx)
			return errs[i]
		})
	}
	firstErr := g.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.loading = false
	for i, err := range errs {
		if err != nil {
			p.notices = append(p.notices, NoticeFor(err))
			continue
		}
		if applies[i] != nil {
			applies[i]()
		}
	}
	if finish != nil {
		finish()
	}
	return firstErr
}

func (p *page) snapshotNotices() []Notice {
	return append([]Notice(nil), p.notices...)
}
