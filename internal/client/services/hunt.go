package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/schnitzeljagd/internal/api"
	"github.com/dmitrijs2005/schnitzeljagd/internal/client/client"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/dmitrijs2005/schnitzeljagd/internal/logging"
	"github.com/dmitrijs2005/schnitzeljagd/internal/scanner"
)

// HuntService runs the hunt state machine on the client. Progress writes
// go through the server's compare-and-set call, so the server stays the
// only source of truth.
type HuntService struct {
	client client.Client
	logger logging.Logger

	mu   sync.Mutex
	ctrl *hunt.Controller
}

func NewHuntService(c client.Client, logger logging.Logger) *HuntService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &HuntService{client: c, logger: logger}
}

// Load fetches the profile and (re)builds the controller for the hunt
// length the server reports.
func (s *HuntService) Load(ctx context.Context) (*hunt.Profile, error) {
	p, err := s.client.Profile(ctx)
	if err != nil {
		return nil, err
	}

	n := p.Waypoints
	if n <= 0 {
		n = hunt.DefaultWaypoints
	}

	s.mu.Lock()
	if s.ctrl == nil || s.ctrl.Machine().Waypoints != n {
		s.ctrl = hunt.NewController(s.client, hunt.NewMachine(n), s.logger)
	}
	s.mu.Unlock()

	return &hunt.Profile{ID: p.ID, Email: p.Email, Nickname: p.Nickname, AvatarRef: p.AvatarURL, Progress: p.Progress}, nil
}

func (s *HuntService) controller() (*hunt.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctrl == nil {
		return nil, client.ErrNotLoggedIn
	}
	return s.ctrl, nil
}

func (s *HuntService) Machine() hunt.Machine {
	ctrl, err := s.controller()
	if err != nil {
		return hunt.NewMachine(hunt.DefaultWaypoints)
	}
	return ctrl.Machine()
}

// NewSession returns a camera session over decoder. Load must have run.
func (s *HuntService) NewSession(decoder hunt.Decoder, notify func(hunt.Notice)) (*hunt.ScanSession, error) {
	ctrl, err := s.controller()
	if err != nil {
		return nil, err
	}
	return hunt.NewScanSession(ctrl, decoder, notify, s.logger), nil
}

// ScanFile decodes a single image and feeds the payload to the controller.
func (s *HuntService) ScanFile(ctx context.Context, userID, path string) (hunt.Outcome, error) {
	ctrl, err := s.controller()
	if err != nil {
		return hunt.Outcome{}, err
	}

	src, err := scanner.NewFileSource(path)
	if err != nil {
		return hunt.Outcome{}, err
	}
	defer src.Close()

	img, err := src.Next(ctx)
	if err != nil {
		return hunt.Outcome{}, err
	}
	payload, err := scanner.DecodeOnce(img)
	if err != nil {
		return hunt.Outcome{}, fmt.Errorf("%s: %w", path, err)
	}
	return ctrl.Scan(ctx, userID, payload)
}

// Submit hands a raw payload to the server, which validates and applies it.
func (s *HuntService) Submit(ctx context.Context, payload string) (*api.SubmitScanResponse, error) {
	return s.client.SubmitScan(ctx, payload)
}

func (s *HuntService) Reset(ctx context.Context, userID string) (*hunt.Profile, error) {
	ctrl, err := s.controller()
	if err != nil {
		return nil, err
	}
	return ctrl.ResetProgress(ctx, userID)
}

func (s *HuntService) Story(ctx context.Context, k int) (*api.GetStoryResponse, error) {
	return s.client.Story(ctx, k)
}

func (s *HuntService) Hint(ctx context.Context, k int) (string, error) {
	return s.client.Hint(ctx, k)
}

func (s *HuntService) Chapters(ctx context.Context) ([]api.Chapter, error) {
	return s.client.Chapters(ctx)
}
