package hunt

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrStaleProgress is returned when the stored progress no longer matches
	// the value the transition was computed from.
	ErrStaleProgress = fmt.Errorf("stale progress: %w", common.ErrVersionConflict)

	ErrInvalidTransition = fmt.Errorf("invalid transition: %w", common.ErrorValidation)
	ErrUnparseable       = errors.New("unparseable payload")
	ErrSessionBusy       = errors.New("scan session busy")
)
