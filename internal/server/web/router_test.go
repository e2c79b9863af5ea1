package web

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/dmitrijs2005/schnitzeljagd/internal/logging"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router   *gin.Engine
	users    *fakeUsers
	store    *memStore
	hunt     *fakeHunt
	profiles *fakeProfiles
}

func newTestEnv(t *testing.T, progress int) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &memStore{profiles: map[string]*hunt.Profile{
		"u1": {ID: "u1", Email: "u1@x.de", Progress: progress},
	}}
	env := &testEnv{
		users:    &fakeUsers{},
		store:    store,
		hunt:     newFakeHunt(store),
		profiles: &fakeProfiles{store: store, uploads: map[string][]byte{}},
	}
	h := NewHandler(env.users, env.profiles, env.hunt, 24*time.Hour, false, logging.Nop{})
	env.router = NewRouter(h, []string{"http://localhost:3000"})
	return env
}

func (e *testEnv) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (e *testEnv) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, cookies...)
}

var authed = &http.Cookie{Name: common.AccessTokenHeaderName, Value: "access-u1"}

func cookieValue(w *httptest.ResponseRecorder, name string) (string, bool) {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, 0)
	w := env.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAnonymousRedirects(t *testing.T) {
	env := newTestEnv(t, 0)

	tests := []struct {
		path, want string
	}{
		{"/piraten", "/"},
		{"/piratenstory", "/"},
		{"/PiratenStory_01", "/"},
		{"/historik", "/"},
		{"/profil", "/login"},
		{"/update-progress?progress=1", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := env.get(tt.path)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Location"))
		})
	}
	assert.Zero(t, env.store.writes)
}

func TestPublicPages(t *testing.T) {
	env := newTestEnv(t, 0)
	for _, path := range []string{"/", "/login", "/register"} {
		w := env.get(path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "Schnitzeljagd Retro", path)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.post("/login", url.Values{"email": {"u1@x.de"}, "password": {"geheim1"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/piratenstory", w.Header().Get("Location"))
	access, ok := cookieValue(w, common.AccessTokenHeaderName)
	require.True(t, ok)
	assert.Equal(t, "access-u1", access)
	refresh, _ := cookieValue(w, common.RefreshTokenCookieName)
	assert.Equal(t, "refresh-u1", refresh)

	w = env.post("/login", url.Values{"email": {"u1@x.de"}, "password": {"falsch"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "E-Mail oder Passwort falsch.")

	env.users.loginErr = &services.RateLimitedError{RetryAfter: time.Minute}
	w = env.post("/login", url.Values{"email": {"u1@x.de"}, "password": {"geheim1"}})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.post("/register", url.Values{"email": {"neu@x.de"}, "password": {"geheim1"}, "nickname": {"Jack"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/piraten", w.Header().Get("Location"))
	_, ok := cookieValue(w, common.AccessTokenHeaderName)
	assert.True(t, ok)

	w = env.post("/register", url.Values{"email": {"taken@x.de"}, "password": {"geheim1"}})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "bereits registriert")
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, 0)
	w := env.post("/logout", nil, authed, &http.Cookie{Name: common.RefreshTokenCookieName, Value: "refresh-u1"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, []string{"refresh-u1"}, env.users.loggedOut)
	access, ok := cookieValue(w, common.AccessTokenHeaderName)
	assert.True(t, ok)
	assert.Empty(t, access)
}

func TestSession_RefreshesExpiredToken(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.get("/piraten",
		&http.Cookie{Name: common.AccessTokenHeaderName, Value: "expired"},
		&http.Cookie{Name: common.RefreshTokenCookieName, Value: "refresh-u1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"refresh-u1"}, env.users.refreshed)
	access, _ := cookieValue(w, common.AccessTokenHeaderName)
	assert.Equal(t, "access-u1", access)
}

func TestSession_InvalidTokenIsAnonymous(t *testing.T) {
	env := newTestEnv(t, 0)
	w := env.get("/piraten", &http.Cookie{Name: common.AccessTokenHeaderName, Value: "garbage"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Empty(t, env.users.refreshed)
}

func TestStart(t *testing.T) {
	env := newTestEnv(t, 0)
	w := env.get("/piraten", authed)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "53.691713")
	assert.Contains(t, w.Body.String(), "openstreetmap.org")

	env.store.profiles["u1"].Progress = 2
	w = env.get("/piraten", authed)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/PiratenStory_02", w.Header().Get("Location"))
}

func TestResume(t *testing.T) {
	for progress, want := range map[int]string{0: "/piraten", 3: "/PiratenStory_03", 5: "/PiratenStory_05"} {
		env := newTestEnv(t, progress)
		w := env.get("/piratenstory", authed)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, want, w.Header().Get("Location"))
	}
}

func TestWaypoint_Guard(t *testing.T) {
	env := newTestEnv(t, 2)

	w := env.get("/PiratenStory_02", authed)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kapitel 2")

	w = env.get("/PiratenStory_01", authed)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.get("/PiratenStory_03", authed)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/piraten", w.Header().Get("Location"))
	assert.Zero(t, env.store.writes)
}

func TestWaypoint_CaseInsensitive(t *testing.T) {
	env := newTestEnv(t, 1)

	w := env.get("/piratenstory_01", authed)
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/PiratenStory_01", w.Header().Get("Location"))

	w = env.get("/piratenstory_09", authed)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.get("/piratenstory_+1", authed)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWaypoint_TerminalOffersReset(t *testing.T) {
	env := newTestEnv(t, 5)
	w := env.get("/PiratenStory_05", authed)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `action="/reset"`)
	assert.NotContains(t, body, `action="/scan"`)
}

func TestScan(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.post("/scan", url.Values{"payload": {"https://jagd.example/update-progress?progress=1"}}, authed)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/PiratenStory_01", w.Header().Get("Location"))
	assert.Equal(t, 1, env.store.progress("u1"))

	w = env.post("/scan", url.Values{"payload": {"?progress=3"}}, authed)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Falscher QR-Code")
	assert.Equal(t, 1, env.store.progress("u1"))

	w = env.post("/scan", url.Values{"payload": {"kein code"}}, authed)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestScan_InFlight(t *testing.T) {
	env := newTestEnv(t, 1)
	env.hunt.scanErr = services.ErrScanInFlight

	w := env.post("/scan", url.Values{"payload": {"?progress=2"}}, authed)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "bereits verarbeitet")
	assert.Equal(t, 1, env.store.progress("u1"))
}

func TestUpdateProgress(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.get("/update-progress?progress=1", authed)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/PiratenStory_01", w.Header().Get("Location"))

	// A URL cannot skip ahead.
	w = env.get("/update-progress?progress=5", authed)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 1, env.store.progress("u1"))

	w = env.get("/update-progress", authed)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "progress")
}

func TestReset(t *testing.T) {
	env := newTestEnv(t, 5)
	w := env.post("/reset", nil, authed)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/piraten", w.Header().Get("Location"))
	assert.Equal(t, 0, env.store.progress("u1"))
}

func TestReset_OnlyAtTerminal(t *testing.T) {
	env := newTestEnv(t, 3)
	w := env.post("/reset", nil, authed)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), noticeResetLocked)
	assert.Equal(t, 3, env.store.progress("u1"))
}

func TestHint(t *testing.T) {
	env := newTestEnv(t, 1)

	w := env.post("/PiratenStory_01/hint", nil, authed)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Schau unter den Steg")

	w = env.post("/PiratenStory_02/hint", nil, authed)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/piraten", w.Header().Get("Location"))
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t, 2)
	w := env.get("/historik", authed)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Kapitel 1")
	assert.Contains(t, body, "Kapitel 2")
	assert.NotContains(t, body, "Kapitel 3")
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t, 3)

	w := env.get("/profil", authed)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "3 von 5")

	w = env.post("/profil", url.Values{"nickname": {"Käpt'n"}}, authed)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "Käpt'n", env.store.profiles["u1"].Nickname)

	w = env.post("/profil", url.Values{"nickname": {strings.Repeat("x", 50)}}, authed)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadAvatar(t *testing.T) {
	env := newTestEnv(t, 0)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("avatar", "me.PNG")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("\x89PNG"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/profil/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := env.do(req, authed)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, []byte("\x89PNG"), env.profiles.uploads["u1.png"])

	w = env.get("/profil", authed)
	assert.Contains(t, w.Body.String(), "http://img/u1.png")
}

func TestUploadAvatar_MissingFile(t *testing.T) {
	env := newTestEnv(t, 0)
	w := env.post("/profil/avatar", url.Values{}, authed)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMissingProfileRedirectsHome(t *testing.T) {
	env := newTestEnv(t, 0)
	w := env.get("/piraten", &http.Cookie{Name: common.AccessTokenHeaderName, Value: "access-ghost"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestRequestID(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.get("/healthz")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = env.do(req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}
