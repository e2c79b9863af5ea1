package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/dmitrijs2005/schnitzeljagd/internal/logging"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/cache"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/models"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/repositories/repomanager"
)

// NoHintText is shown when a waypoint has no hint record.
const NoHintText = "Für diesen Abschnitt gibt es keinen Hinweis."

var (
	// ErrScanInFlight means another request for the same user is writing.
	ErrScanInFlight = fmt.Errorf("scan in flight: %w", common.ErrVersionConflict)

	// ErrWaypointLocked carries the redirect target in a LockedError.
	ErrWaypointLocked = errors.New("waypoint locked")
)

// LockedError is returned when a waypoint is opened before it was unlocked.
type LockedError struct {
	Redirect hunt.View
}

func (e *LockedError) Error() string { return "waypoint locked, go to " + string(e.Redirect) }

func (e *LockedError) Unwrap() error { return ErrWaypointLocked }

// WaypointPage is everything a waypoint view renders.
type WaypointPage struct {
	Index    int
	Profile  *hunt.Profile
	Story    *models.Story
	Terminal bool
}

// HuntService runs the controller against Postgres and serialises writes per
// user through a short lock.
type HuntService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	controller  *hunt.Controller
	locker      cache.Locker
	lockTTL     time.Duration
	logger      logging.Logger
}

func NewHuntService(db *sql.DB, m repomanager.RepositoryManager, machine hunt.Machine,
	locker cache.Locker, lockTTL time.Duration, logger logging.Logger) *HuntService {
	logger = logger.With("module", "hunt-service")
	return &HuntService{
		db:          db,
		repomanager: m,
		controller:  hunt.NewController(m.Profiles(db), machine, logger),
		locker:      locker,
		lockTTL:     lockTTL,
		logger:      logger,
	}
}

func (s *HuntService) Machine() hunt.Machine { return s.controller.Machine() }

func (s *HuntService) Profile(ctx context.Context, userID string) (*hunt.Profile, error) {
	return s.controller.LoadCurrentState(ctx, userID)
}

func (s *HuntService) withLock(ctx context.Context, userID string, fn func() error) error {
	release, ok, err := s.locker.Acquire(ctx, "scan:"+userID, s.lockTTL)
	if err != nil {
		return fmt.Errorf("scan lock: %w", err)
	}
	if !ok {
		return ErrScanInFlight
	}
	defer release()
	return fn()
}

// Scan validates payload against the stored progress and applies it.
func (s *HuntService) Scan(ctx context.Context, userID, payload string) (hunt.Outcome, error) {
	if userID == "" {
		return hunt.Outcome{}, hunt.ErrNotAuthenticated
	}
	var out hunt.Outcome
	err := s.withLock(ctx, userID, func() error {
		var err error
		out, err = s.controller.Scan(ctx, userID, payload)
		return err
	})
	return out, err
}

// Advance is the explicit compare-and-set write used by clients that
// validated the scan themselves.
func (s *HuntService) Advance(ctx context.Context, userID string, expected, next int) (*hunt.Profile, error) {
	if userID == "" {
		return nil, hunt.ErrNotAuthenticated
	}
	var p *hunt.Profile
	err := s.withLock(ctx, userID, func() error {
		var err error
		p, err = s.controller.ApplyTransition(ctx, userID, expected, next)
		return err
	})
	return p, err
}

func (s *HuntService) Reset(ctx context.Context, userID string) (*hunt.Profile, error) {
	return s.controller.ResetProgress(ctx, userID)
}

// Waypoint loads waypoint k for the user, applying the shared guard.
func (s *HuntService) Waypoint(ctx context.Context, userID string, k int) (*WaypointPage, error) {
	p, err := s.controller.LoadCurrentState(ctx, userID)
	if err != nil {
		return nil, err
	}
	m := s.controller.Machine()
	if view, ok := m.Guard(k, p.Progress); !ok {
		return nil, &LockedError{Redirect: view}
	}

	story, err := s.repomanager.Stories(s.db).Get(ctx, k)
	if err != nil {
		return nil, fmt.Errorf("load story %d: %w", k, err)
	}
	return &WaypointPage{Index: k, Profile: p, Story: story, Terminal: m.Terminal(k)}, nil
}

// Hint returns the hint for waypoint k, or NoHintText.
func (s *HuntService) Hint(ctx context.Context, userID string, k int) (string, error) {
	p, err := s.controller.LoadCurrentState(ctx, userID)
	if err != nil {
		return "", err
	}
	if view, ok := s.controller.Machine().Guard(k, p.Progress); !ok {
		return "", &LockedError{Redirect: view}
	}

	h, err := s.repomanager.Stories(s.db).Hint(ctx, k)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return NoHintText, nil
		}
		return "", fmt.Errorf("load hint %d: %w", k, err)
	}
	return h.Content, nil
}

// Chapters lists every story the user has unlocked so far.
func (s *HuntService) Chapters(ctx context.Context, userID string) (*hunt.Profile, []models.Story, error) {
	p, err := s.controller.LoadCurrentState(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if p.Progress == 0 {
		return p, nil, nil
	}
	list, err := s.repomanager.Stories(s.db).ListUpTo(ctx, p.Progress)
	if err != nil {
		return nil, nil, fmt.Errorf("load chapters: %w", err)
	}
	return p, list, nil
}
