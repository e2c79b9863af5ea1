package cli

import (
	"errors"

	"github.com/dmitrijs2005/schnitzeljagd/internal/client/client"
	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
)

// Hunt-facing texts match the web pages.
const (
	msgWrongCode = "Falscher QR-Code. Bitte scanne den richtigen Code."
	msgNotSaved  = "Fortschritt konnte nicht aktualisiert werden."
	msgLocked    = "Dieses Kapitel ist noch gesperrt."
	msgFinished  = "Du hast alle Hinweise gefunden. Der Schatz gehört dir!"

	msgResetLocked = "Zurücksetzen ist erst nach dem letzten Hinweis möglich."
)

func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrNotLoggedIn):
		return "please log in first"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, client.ErrUnauthorized):
		return "not authorized"
	case errors.Is(err, client.ErrLocked):
		return msgLocked
	case errors.Is(err, hunt.ErrStaleProgress), errors.Is(err, common.ErrVersionConflict):
		return msgNotSaved
	case errors.Is(err, common.ErrTooManyRequests):
		return "too many login attempts, please wait a minute"
	case errors.Is(err, common.ErrorAlreadyExists):
		return "this email is already registered"
	default:
		return err.Error()
	}
}
