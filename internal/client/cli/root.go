package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/schnitzeljagd/internal/client/client"
)

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.profile != nil {
		s = fmt.Sprintf("%s %d/%d ", a.email, a.profile.Progress, a.huntService.Machine().Waypoints)
	}
	s += string(a.Mode)
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root restores a stored session if there is one, starts the connectivity
// watcher and blocks in the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("Schnitzeljagd scanner (type 'help' for commands)")

	if err := a.resume(ctx); err != nil && !errors.Is(err, client.ErrNotLoggedIn) {
		printlnFn("Could not restore session:", describe(err))
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
