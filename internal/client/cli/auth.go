package cli

import (
	"context"
	"fmt"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	nickname, err := getSimpleText(a.reader, "Enter nickname (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Register(ctx, email, password, nickname); err != nil {
		return err
	}
	printlnFn("Registered. You can log in now.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Login(ctx, email, password); err != nil {
		return err
	}
	if err := a.enter(ctx, email); err != nil {
		return err
	}
	a.setMode(ModeOnline)
	printlnFn("Login successful.")
	return nil
}

// resume logs in with the stored refresh token.
func (a *App) resume(ctx context.Context) error {
	email, err := a.authService.Resume(ctx)
	if err != nil {
		return err
	}
	if err := a.enter(ctx, email); err != nil {
		return err
	}
	a.setMode(ModeOnline)
	printlnFn(fmt.Sprintf("Welcome back, %s.", email))
	return nil
}

func (a *App) enter(ctx context.Context, email string) error {
	p, err := a.huntService.Load(ctx)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.email = email
	a.profile = p
	a.mu.Unlock()
	return nil
}

// Logout stops the camera, revokes the session and forgets the profile.
func (a *App) Logout(ctx context.Context) error {
	a.stopCamera()

	err := a.authService.Logout(ctx)

	a.mu.Lock()
	a.email = ""
	a.profile = nil
	a.session = nil
	a.mu.Unlock()

	if err != nil {
		return err
	}
	printlnFn("Logged out.")
	return nil
}
