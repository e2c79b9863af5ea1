package hunt

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/logging"
)

// Controller applies the state machine to stored profiles.
type Controller struct {
	store   ProgressStore
	machine Machine
	logger  logging.Logger
}

func NewController(store ProgressStore, machine Machine, logger logging.Logger) *Controller {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Controller{store: store, machine: machine, logger: logger.With("module", "hunt")}
}

func (c *Controller) Machine() Machine { return c.machine }

func (c *Controller) LoadCurrentState(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	p, err := c.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// ValidateScan never fails; malformed input becomes a rejection.
func (c *Controller) ValidateScan(raw string, current int) Decision {
	return c.machine.Validate(raw, current)
}

// ApplyTransition persists expected -> next with a single compare-and-set
// write.
func (c *Controller) ApplyTransition(ctx context.Context, userID string, expected, next int) (*Profile, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if next != expected+1 || !c.machine.Valid(next) {
		return nil, ErrInvalidTransition
	}

	p, err := c.store.CompareAndSetProgress(ctx, userID, expected, next)
	if err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			c.logger.Warn(ctx, "stale progress", "user_id", userID, "expected", expected, "next", next)
			return nil, ErrStaleProgress
		}
		return nil, fmt.Errorf("apply transition: %w", err)
	}

	c.logger.Info(ctx, "progress advanced", "user_id", userID, "progress", p.Progress)
	return p, nil
}

func (c *Controller) ResetProgress(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	p, err := c.store.ResetProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reset progress: %w", err)
	}
	c.logger.Info(ctx, "progress reset", "user_id", userID)
	return p, nil
}

// Outcome is what a scan led to. Profile is the stored state after the scan
// and View is where the user should go next.
type Outcome struct {
	Decision Decision
	Profile  *Profile
	View     View
}

// Scan runs load, validate and apply for one payload. A rejected payload is
// not an error: the outcome carries the reason and the unchanged profile.
func (c *Controller) Scan(ctx context.Context, userID, raw string) (Outcome, error) {
	p, err := c.LoadCurrentState(ctx, userID)
	if err != nil {
		return Outcome{}, err
	}

	d := c.ValidateScan(raw, p.Progress)
	if !d.Accepted {
		c.logger.Debug(ctx, "scan rejected", "user_id", userID, "reason", d.Reason.String())
		return Outcome{Decision: d, Profile: p, View: c.machine.ViewFor(p.Progress)}, nil
	}

	updated, err := c.ApplyTransition(ctx, userID, p.Progress, d.Next)
	if err != nil {
		return Outcome{Decision: d, Profile: p}, err
	}
	return Outcome{Decision: d, Profile: updated, View: c.machine.ViewFor(updated.Progress)}, nil
}
