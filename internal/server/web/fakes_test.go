package web

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/dmitrijs2005/schnitzeljagd/internal/logging"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/models"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/services"
)

// fakeUsers accepts password "geheim1" and treats "access-<id>" as a valid
// access token for id.
type fakeUsers struct {
	mu        sync.Mutex
	loginErr  error
	refreshed []string
	loggedOut []string
}

func (f *fakeUsers) Register(ctx context.Context, email, password, nickname string) (*models.User, error) {
	if email == "taken@x.de" {
		return nil, common.ErrorAlreadyExists
	}
	return &models.User{ID: "u1", Email: email}, nil
}

func (f *fakeUsers) Login(ctx context.Context, clientKey, email, password string) (*services.TokenPair, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if password != "geheim1" {
		return nil, common.ErrorUnauthorized
	}
	return &services.TokenPair{AccessToken: "access-u1", RefreshToken: "refresh-u1"}, nil
}

func (f *fakeUsers) RefreshToken(ctx context.Context, refresh string) (*services.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed = append(f.refreshed, refresh)
	id, ok := strings.CutPrefix(refresh, "refresh-")
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return &services.TokenPair{AccessToken: "access-" + id, RefreshToken: "refresh-" + id}, nil
}

func (f *fakeUsers) Logout(ctx context.Context, refresh string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = append(f.loggedOut, refresh)
	return nil
}

func (f *fakeUsers) Authenticate(token string) (string, error) {
	if token == "expired" {
		return "", common.ErrTokenExpired
	}
	id, ok := strings.CutPrefix(token, "access-")
	if !ok {
		return "", common.ErrInvalidToken
	}
	return id, nil
}

// memStore is an in-memory hunt.ProgressStore.
type memStore struct {
	mu       sync.Mutex
	profiles map[string]*hunt.Profile
	writes   int
}

func (m *memStore) GetProfile(_ context.Context, id string) (*hunt.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) CompareAndSetProgress(_ context.Context, id string, expected, next int) (*hunt.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	p, ok := m.profiles[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if p.Progress != expected {
		return nil, common.ErrVersionConflict
	}
	p.Progress = next
	cp := *p
	return &cp, nil
}

func (m *memStore) ResetProgress(_ context.Context, id string) (*hunt.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	p, ok := m.profiles[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	p.Progress = 0
	cp := *p
	return &cp, nil
}

func (m *memStore) progress(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[id].Progress
}

type fakeProfiles struct {
	store   *memStore
	uploads map[string][]byte
}

func (f *fakeProfiles) GetProfile(ctx context.Context, id string) (*hunt.Profile, error) {
	return f.store.GetProfile(ctx, id)
}

func (f *fakeProfiles) UpdateNickname(ctx context.Context, id, nickname string) (*hunt.Profile, error) {
	if len(nickname) > 40 {
		return nil, common.ErrorValidation
	}
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.profiles[id].Nickname = nickname
	cp := *f.store.profiles[id]
	return &cp, nil
}

func (f *fakeProfiles) UploadAvatar(ctx context.Context, id string, data []byte, ext string) (*hunt.Profile, error) {
	key, _, err := services.AvatarKey(id, ext)
	if err != nil {
		return nil, err
	}
	f.uploads[key] = data
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.profiles[id].AvatarRef = key
	cp := *f.store.profiles[id]
	return &cp, nil
}

func (f *fakeProfiles) AvatarURL(ref string) string {
	if ref == "" {
		return ""
	}
	return "http://img/" + ref
}

// fakeHunt runs the real controller over memStore.
type fakeHunt struct {
	ctrl    *hunt.Controller
	scanErr error
	stories map[int]models.Story
}

func newFakeHunt(store *memStore) *fakeHunt {
	st := map[int]models.Story{}
	for i := 1; i <= 5; i++ {
		st[i] = models.Story{ID: i, Title: "Kapitel " + string(rune('0'+i)), Content: "Text " + string(rune('0'+i))}
	}
	return &fakeHunt{ctrl: hunt.NewController(store, hunt.NewMachine(5), logging.Nop{}), stories: st}
}

func (f *fakeHunt) Machine() hunt.Machine { return f.ctrl.Machine() }

func (f *fakeHunt) Profile(ctx context.Context, id string) (*hunt.Profile, error) {
	return f.ctrl.LoadCurrentState(ctx, id)
}

func (f *fakeHunt) Scan(ctx context.Context, id, payload string) (hunt.Outcome, error) {
	if f.scanErr != nil {
		return hunt.Outcome{}, f.scanErr
	}
	return f.ctrl.Scan(ctx, id, payload)
}

func (f *fakeHunt) Reset(ctx context.Context, id string) (*hunt.Profile, error) {
	return f.ctrl.ResetProgress(ctx, id)
}

func (f *fakeHunt) Waypoint(ctx context.Context, id string, k int) (*services.WaypointPage, error) {
	p, err := f.ctrl.LoadCurrentState(ctx, id)
	if err != nil {
		return nil, err
	}
	m := f.ctrl.Machine()
	if view, ok := m.Guard(k, p.Progress); !ok {
		return nil, &services.LockedError{Redirect: view}
	}
	st := f.stories[k]
	return &services.WaypointPage{Index: k, Profile: p, Story: &st, Terminal: m.Terminal(k)}, nil
}

func (f *fakeHunt) Hint(ctx context.Context, id string, k int) (string, error) {
	if _, err := f.Waypoint(ctx, id, k); err != nil {
		return "", err
	}
	return "Schau unter den Steg", nil
}

func (f *fakeHunt) Chapters(ctx context.Context, id string) (*hunt.Profile, []models.Story, error) {
	p, err := f.ctrl.LoadCurrentState(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	var out []models.Story
	for i := 1; i <= p.Progress; i++ {
		out = append(out, f.stories[i])
	}
	return p, out, nil
}

