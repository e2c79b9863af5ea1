package cli

import (
	"context"
	"strings"
)

func (a *App) Nickname(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		var err error
		if name, err = getSimpleText(a.reader, "Enter nickname", a.out); err != nil {
			return err
		}
	}

	p, err := a.profileService.UpdateNickname(ctx, name)
	if err != nil {
		return err
	}
	a.mu.Lock()
	if a.profile != nil {
		a.profile.Nickname = p.Nickname
	}
	a.mu.Unlock()
	printlnFn("Nickname set to", p.Nickname)
	return nil
}

func (a *App) Avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: avatar <file>")
		return nil
	}
	p, err := a.profileService.UploadAvatar(ctx, args[0])
	if err != nil {
		return err
	}
	printlnFn("Avatar uploaded:", p.AvatarURL)
	return nil
}
