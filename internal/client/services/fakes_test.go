package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/schnitzeljagd/internal/api"
	"github.com/dmitrijs2005/schnitzeljagd/internal/client/client"
	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeClient is an in-memory hunt backend.
type fakeClient struct {
	profile api.Profile

	loginErr    error
	resumeErr   error
	logoutErr   error
	registerErr error
	pingErr     error
	uploadErr   error

	refresh   string
	onRefresh func(string)

	lastPassword string
	lastNickname string
	lastExt      string
	confirmed    string
	closed       bool
	resumedWith  string
	scanned      []string
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeClient) Register(ctx context.Context, email, password, nickname string) (string, error) {
	f.lastPassword, f.lastNickname = password, nickname
	if f.registerErr != nil {
		return "", f.registerErr
	}
	return "u-1", nil
}

func (f *fakeClient) Login(ctx context.Context, email, password string) error {
	f.lastPassword = password
	if f.loginErr != nil {
		return f.loginErr
	}
	f.rotate("R1")
	return nil
}

func (f *fakeClient) Resume(ctx context.Context, refreshToken string) error {
	f.resumedWith = refreshToken
	if f.resumeErr != nil {
		return f.resumeErr
	}
	f.rotate(refreshToken + "+")
	return nil
}

func (f *fakeClient) rotate(token string) {
	f.refresh = token
	if f.onRefresh != nil {
		f.onRefresh(token)
	}
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.refresh = ""
	return f.logoutErr
}

func (f *fakeClient) RefreshTokenValue() string { return f.refresh }
func (f *fakeClient) OnTokenRefresh(fn func(string)) { f.onRefresh = fn }
func (f *fakeClient) Close() error { f.closed = true; return nil }
func (f *fakeClient) Profile(context.Context) (*api.Profile, error) {
	p := f.profile
	return &p, nil
}

func (f *fakeClient) GetProfile(ctx context.Context, userID string) (*hunt.Profile, error) {
	return &hunt.Profile{ID: f.profile.ID, Progress: f.profile.Progress}, nil
}

func (f *fakeClient) CompareAndSetProgress(ctx context.Context, userID string, expected, next int) (*hunt.Profile, error) {
	if f.profile.Progress != expected {
		return nil, common.ErrVersionConflict
	}
	f.profile.Progress = next
	return &hunt.Profile{ID: f.profile.ID, Progress: next}, nil
}

func (f *fakeClient) ResetProgress(ctx context.Context, userID string) (*hunt.Profile, error) {
	f.profile.Progress = 0
	return &hunt.Profile{ID: f.profile.ID}, nil
}

func (f *fakeClient) SubmitScan(ctx context.Context, payload string) (*api.SubmitScanResponse, error) {
	f.scanned = append(f.scanned, payload)
	return &api.SubmitScanResponse{Accepted: true, Profile: f.profile}, nil
}

func (f *fakeClient) Story(ctx context.Context, index int) (*api.GetStoryResponse, error) {
	return &api.GetStoryResponse{Index: index, Title: "Kapitel"}, nil
}

func (f *fakeClient) Hint(ctx context.Context, index int) (string, error) { return "Osten", nil }

func (f *fakeClient) Chapters(ctx context.Context) ([]api.Chapter, error) {
	return []api.Chapter{{Index: 1, Title: "Aufbruch"}}, nil
}

func (f *fakeClient) UpdateNickname(ctx context.Context, nickname string) (*api.Profile, error) {
	f.profile.Nickname = nickname
	p := f.profile
	return &p, nil
}

func (f *fakeClient) RequestAvatarUpload(ctx context.Context, ext string) (*api.RequestAvatarUploadResponse, error) {
	f.lastExt = ext
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &api.RequestAvatarUploadResponse{Key: f.profile.ID + "." + ext, URL: "https://s3.example/put", ContentType: "image/" + ext}, nil
}

func (f *fakeClient) ConfirmAvatar(ctx context.Context, key string) (*api.Profile, error) {
	f.confirmed = key
	f.profile.AvatarURL = "https://cdn.example/" + key
	p := f.profile
	return &p, nil
}
