package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
)

func (a *App) userID() (string, int, error) {
	p, ok := a.currentProfile()
	if !ok {
		return "", 0, hunt.ErrNotAuthenticated
	}
	return p.ID, p.Progress, nil
}

func (a *App) Status(ctx context.Context) error {
	p, err := a.huntService.Load(ctx)
	if err != nil {
		return err
	}
	a.setProfile(p)

	m := a.huntService.Machine()
	name := p.Nickname
	if name == "" {
		name = p.Email
	}
	printlnFn(fmt.Sprintf("%s: %d of %d codes found, next view %s", name, p.Progress, m.Waypoints, m.ViewFor(p.Progress)))
	if m.Terminal(p.Progress) {
		printlnFn(msgFinished)
	}
	return nil
}

// Story prints chapter n, or the chapter of the current progress.
func (a *App) Story(ctx context.Context, args []string) error {
	_, progress, err := a.userID()
	if err != nil {
		return err
	}

	k := progress
	if len(args) > 0 {
		if k, err = strconv.Atoi(args[0]); err != nil {
			printlnFn("Usage: story [n]")
			return nil
		}
	}
	if k == 0 {
		printlnFn("Die Jagd beginnt am Start. Scanne den ersten Code mit 'camera' oder 'scan <file>'.")
		return nil
	}

	st, err := a.huntService.Story(ctx, k)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("== %d. %s ==", st.Index, st.Title))
	printlnFn(st.Content)
	if st.Terminal {
		printlnFn(msgFinished)
	}
	return nil
}

func (a *App) Hint(ctx context.Context) error {
	_, progress, err := a.userID()
	if err != nil {
		return err
	}
	if progress == 0 {
		printlnFn("Noch kein Hinweis: finde zuerst den ersten Code.")
		return nil
	}
	h, err := a.huntService.Hint(ctx, progress)
	if err != nil {
		return err
	}
	printlnFn("Hinweis:", h)
	return nil
}

func (a *App) History(ctx context.Context) error {
	list, err := a.huntService.Chapters(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printlnFn("Noch keine Kapitel freigeschaltet.")
		return nil
	}
	for _, ch := range list {
		printlnFn(fmt.Sprintf("%d. %s", ch.Index, ch.Title))
	}
	return nil
}

// Camera toggles the frame decoder. While it runs, every decoded code is
// checked against the current progress and the first valid one is stored.
func (a *App) Camera(ctx context.Context) error {
	a.mu.Lock()
	session := a.session
	a.mu.Unlock()

	if session != nil && session.State() != hunt.StateIdle {
		a.stopCamera()
		return nil
	}

	p, ok := a.currentProfile()
	if !ok {
		return hunt.ErrNotAuthenticated
	}
	if a.huntService.Machine().Terminal(p.Progress) {
		printlnFn(msgFinished)
		return nil
	}

	if session == nil {
		var err error
		session, err = a.huntService.NewSession(a.newDecoder(), a.onNotice)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.session = session
		a.mu.Unlock()
	}

	a.mu.Lock()
	a.lastRejected = -1
	a.mu.Unlock()

	if err := session.Enable(ctx, &p); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Camera on, reading frames from %s. Type 'camera' again to stop.", a.config.FramesDir))
	return nil
}

func (a *App) stopCamera() {
	a.mu.Lock()
	session := a.session
	a.mu.Unlock()
	if session != nil {
		session.Disable()
	}
}

// onNotice runs on the session goroutine.
func (a *App) onNotice(n hunt.Notice) {
	switch n.Kind {
	case hunt.NoticeRejected:
		a.mu.Lock()
		repeated := a.lastRejected == n.Decision.Target
		a.lastRejected = n.Decision.Target
		a.mu.Unlock()
		if !repeated {
			printlnFn(msgWrongCode)
		}
	case hunt.NoticeAccepted:
		a.setProfile(n.Profile)
		a.announce(n.Profile.Progress)
	case hunt.NoticeFailed:
		printlnFn(msgNotSaved, describe(n.Err))
	case hunt.NoticeStopped:
		printlnFn("Camera off.")
	}
}

func (a *App) announce(progress int) {
	m := a.huntService.Machine()
	if m.Terminal(progress) {
		printlnFn(fmt.Sprintf("Code %d/%d gefunden! %s", progress, m.Waypoints, msgFinished))
		return
	}
	printlnFn(fmt.Sprintf("Code %d/%d gefunden! Tippe 'story' für das neue Kapitel.", progress, m.Waypoints))
}

// Scan decodes one image file, for when no camera is attached.
func (a *App) Scan(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: scan <file>")
		return nil
	}
	if a.cameraRunning() {
		printlnFn("Stop the camera first.")
		return nil
	}
	userID, _, err := a.userID()
	if err != nil {
		return err
	}

	out, err := a.huntService.ScanFile(ctx, userID, args[0])
	if err != nil {
		return err
	}
	return a.applyOutcome(out.Decision.Accepted, out.Profile)
}

// Paste submits a raw payload (for example a URL copied from a phone) to
// the server, which validates it.
func (a *App) Paste(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: paste <payload>")
		return nil
	}
	if a.cameraRunning() {
		printlnFn("Stop the camera first.")
		return nil
	}

	resp, err := a.huntService.Submit(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	p := &hunt.Profile{ID: resp.Profile.ID, Email: resp.Profile.Email, Nickname: resp.Profile.Nickname, Progress: resp.Profile.Progress}
	return a.applyOutcome(resp.Accepted, p)
}

func (a *App) applyOutcome(accepted bool, p *hunt.Profile) error {
	if !accepted {
		printlnFn(msgWrongCode)
		return nil
	}
	if p == nil {
		return errors.New("missing profile in scan result")
	}
	a.setProfile(p)
	a.announce(p.Progress)
	return nil
}

func (a *App) cameraRunning() bool {
	a.mu.Lock()
	session := a.session
	a.mu.Unlock()
	return session != nil && session.State() != hunt.StateIdle
}

func (a *App) Reset(ctx context.Context) error {
	if a.cameraRunning() {
		printlnFn("Stop the camera first.")
		return nil
	}
	userID, progress, err := a.userID()
	if err != nil {
		return err
	}
	if !a.huntService.Machine().Terminal(progress) {
		printlnFn(msgResetLocked)
		return nil
	}
	ok, err := Confirm(a.reader, "Reset your progress to the start?", a.out)
	if err != nil || !ok {
		return err
	}
	p, err := a.huntService.Reset(ctx, userID)
	if err != nil {
		return err
	}
	a.setProfile(p)
	printlnFn("Progress reset. Die Jagd beginnt von vorn.")
	return nil
}
