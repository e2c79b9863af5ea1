package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/dbx"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/models"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/repositories/stories"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	mu        sync.Mutex
	byEmail   map[string]*models.User
	createErr error
	getErr    error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = "u-" + u.Email
	u.CreatedAt = time.Now()
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeRefreshRepo struct {
	mu        sync.Mutex
	tokens    map[string]*models.RefreshToken
	createErr error
	delErr    error
}

func (f *fakeRefreshRepo) Create(_ context.Context, userID, token string, validity time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshRepo) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return rt, nil
}

func (f *fakeRefreshRepo) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.tokens, token)
	return nil
}

type fakeProfilesRepo struct {
	mu       sync.Mutex
	profiles map[string]*hunt.Profile
	writes   int
	err      error
}

func (f *fakeProfilesRepo) get(id string) (*hunt.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (f *fakeProfilesRepo) copyOf(p *hunt.Profile) *hunt.Profile {
	cp := *p
	return &cp
}

func (f *fakeProfilesRepo) GetProfile(_ context.Context, id string) (*hunt.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.get(id)
	if err != nil {
		return nil, err
	}
	return f.copyOf(p), nil
}

func (f *fakeProfilesRepo) CompareAndSetProgress(_ context.Context, id string, expected, next int) (*hunt.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	p, err := f.get(id)
	if err != nil {
		return nil, err
	}
	if p.Progress != expected {
		return nil, common.ErrVersionConflict
	}
	p.Progress = next
	return f.copyOf(p), nil
}

func (f *fakeProfilesRepo) ResetProgress(_ context.Context, id string) (*hunt.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	p, err := f.get(id)
	if err != nil {
		return nil, err
	}
	p.Progress = 0
	return f.copyOf(p), nil
}

func (f *fakeProfilesRepo) Create(_ context.Context, p *hunt.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	p.Progress = 0
	f.profiles[p.ID] = f.copyOf(p)
	return nil
}

func (f *fakeProfilesRepo) EnsureExists(_ context.Context, id, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.profiles[id]; !ok {
		f.profiles[id] = &hunt.Profile{ID: id, Email: email}
	}
	return nil
}

func (f *fakeProfilesRepo) UpdateNickname(_ context.Context, id, nickname string) (*hunt.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.get(id)
	if err != nil {
		return nil, err
	}
	p.Nickname = nickname
	return f.copyOf(p), nil
}

func (f *fakeProfilesRepo) UpdateAvatar(_ context.Context, id, ref string) (*hunt.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.get(id)
	if err != nil {
		return nil, err
	}
	p.AvatarRef = ref
	return f.copyOf(p), nil
}

type fakeStoriesRepo struct {
	stories map[int]models.Story
	hints   map[int]string
	err     error
}

func (f *fakeStoriesRepo) Get(_ context.Context, id int) (*models.Story, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.stories[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &s, nil
}

func (f *fakeStoriesRepo) ListUpTo(_ context.Context, n int) ([]models.Story, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Story
	for i := 1; i <= n; i++ {
		if s, ok := f.stories[i]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStoriesRepo) Hint(_ context.Context, id int) (*models.Hint, error) {
	if f.err != nil {
		return nil, f.err
	}
	h, ok := f.hints[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.Hint{StoryID: id, Content: h}, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	p *fakeProfilesRepo
	s *fakeStoriesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	st := &fakeStoriesRepo{stories: map[int]models.Story{}, hints: map[int]string{1: "Osten"}}
	for i := 1; i <= 5; i++ {
		st.stories[i] = models.Story{ID: i, Title: "Story", Content: "Kapitel"}
	}
	return &fakeRepoManager{
		u: &fakeUsersRepo{byEmail: map[string]*models.User{}},
		r: &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}},
		p: &fakeProfilesRepo{profiles: map[string]*hunt.Profile{}},
		s: st,
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                       { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository       { return m.r }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository                 { return m.p }
func (m *fakeRepoManager) Stories(dbx.DBTX) stories.Repository                   { return m.s }
