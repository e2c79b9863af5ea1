package hunt

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/schnitzeljagd/internal/logging"
	"github.com/dmitrijs2005/schnitzeljagd/internal/scanner"
)

// Decoder is the part of scanner.Decoder a session drives.
type Decoder interface {
	Start(ctx context.Context) (<-chan scanner.Result, error)
	Stop()
}

type SessionState int

const (
	StateIdle SessionState = iota
	StateScanning
	StateInFlight
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateInFlight:
		return "in-flight"
	default:
		return "unknown"
	}
}

type NoticeKind int

const (
	// NoticeRejected: wrong code, scanning continues.
	NoticeRejected NoticeKind = iota
	// NoticeAccepted: progress persisted, scanning is off.
	NoticeAccepted
	// NoticeFailed: the write failed, state unchanged, scanning is off.
	NoticeFailed
	// NoticeStopped: scanning ended without a transition.
	NoticeStopped
)

type Notice struct {
	Kind     NoticeKind
	Decision Decision
	Profile  *Profile
	View     View
	Err      error
}

// ScanSession owns one decoder run for one user. Scanning and an in-flight
// transition never overlap: the decoder is stopped before the write is
// issued and is only started again by an explicit Enable.
//
// notify is called from the session goroutine and must not call Enable or
// Disable.
type ScanSession struct {
	ctrl    *Controller
	decoder Decoder
	notify  func(Notice)
	logger  logging.Logger

	mu      sync.Mutex
	state   SessionState
	profile Profile
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewScanSession(ctrl *Controller, decoder Decoder, notify func(Notice), logger logging.Logger) *ScanSession {
	if notify == nil {
		notify = func(Notice) {}
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	return &ScanSession{
		ctrl:    ctrl,
		decoder: decoder,
		notify:  notify,
		logger:  logger.With("module", "scan-session"),
	}
}

func (s *ScanSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Enable starts the decoder for profile. It fails with ErrSessionBusy unless
// the session is idle.
func (s *ScanSession) Enable(ctx context.Context, profile *Profile) error {
	if profile == nil || profile.ID == "" {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrSessionBusy
	}
	// A previous run may still be tearing down after notifying.
	if s.done != nil {
		<-s.done
	}

	runCtx, cancel := context.WithCancel(ctx)
	results, err := s.decoder.Start(runCtx)
	if err != nil {
		cancel()
		return err
	}

	s.state = StateScanning
	s.profile = *profile
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.consume(runCtx, results, s.done)

	s.logger.Debug(ctx, "scanning enabled", "user_id", profile.ID, "progress", profile.Progress)
	return nil
}

// Disable stops scanning and waits for the session goroutine. An in-flight
// write is allowed to finish. Calling Disable on an idle session is a no-op.
func (s *ScanSession) Disable() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	if cancel != nil {
		cancel()
	}
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	s.decoder.Stop()
	<-done
}

func (s *ScanSession) consume(ctx context.Context, results <-chan scanner.Result, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			s.stopped(ctx)
			return
		case res, ok := <-results:
			if !ok {
				s.stopped(ctx)
				return
			}
			if res.Err != nil {
				s.logger.Debug(ctx, "decode attempt failed", "error", res.Err)
				continue
			}
			if s.handle(ctx, res.Payload) {
				return
			}
		}
	}
}

// handle reports whether the run is over.
func (s *ScanSession) handle(ctx context.Context, payload string) bool {
	s.mu.Lock()
	current := s.profile
	s.mu.Unlock()

	d := s.ctrl.ValidateScan(payload, current.Progress)
	if !d.Accepted {
		s.notify(Notice{Kind: NoticeRejected, Decision: d, Profile: &current})
		return false
	}

	s.mu.Lock()
	if ctx.Err() != nil {
		s.mu.Unlock()
		s.stopped(ctx)
		return true
	}
	s.state = StateInFlight
	s.mu.Unlock()

	// Camera off before the write; anything still queued is dropped.
	s.decoder.Stop()

	p, err := s.ctrl.ApplyTransition(context.WithoutCancel(ctx), current.ID, current.Progress, d.Next)

	s.mu.Lock()
	s.state = StateIdle
	cancel := s.cancel
	s.cancel = nil
	if err == nil {
		s.profile = *p
	}
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	if err != nil {
		s.logger.Error(ctx, "transition failed", "user_id", current.ID, "error", err)
		s.notify(Notice{Kind: NoticeFailed, Decision: d, Profile: &current, Err: err})
		return true
	}

	s.notify(Notice{Kind: NoticeAccepted, Decision: d, Profile: p, View: s.ctrl.Machine().ViewFor(p.Progress)})
	return true
}

func (s *ScanSession) stopped(ctx context.Context) {
	s.decoder.Stop()

	s.mu.Lock()
	s.state = StateIdle
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	s.logger.Debug(ctx, "scanning stopped")
	s.notify(Notice{Kind: NoticeStopped})
}
