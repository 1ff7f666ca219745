package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/chrima/internal/common"
	"github.com/dmitrijs2005/chrima/internal/logging"
	"github.com/dmitrijs2005/chrima/internal/server/models"
	"github.com/dmitrijs2005/chrima/internal/server/services"
	"github.com/stretchr/testify/require"
)

const (
	adminToken = "tok-admin"
	userToken  = "tok-bob"
)

var (
	admin = &models.User{ID: "u-admin", UserName: "alice", IsAdmin: true}
	bob   = &models.User{ID: "u-bob", UserName: "bob"}
)

type fakeUsers struct {
	registerErr error
	registered  []string
	loginErr    error
	loggedOut   []string
}

func (f *fakeUsers) Register(_ context.Context, userName, password string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.registered = append(f.registered, userName+":"+password)
	return &models.User{ID: "u-new", UserName: userName}, nil
}

func (f *fakeUsers) Login(_ context.Context, userName, password string) (*services.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &services.LoginResult{Token: "tok-" + userName, Expires: time.Now().Add(time.Hour), User: bob}, nil
}

func (f *fakeUsers) Logout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (*models.User, error) {
	switch token {
	case adminToken:
		return admin, nil
	case userToken:
		return bob, nil
	}
	return nil, common.ErrUnauthenticated
}

type fakeGame struct {
	state      models.GameState
	assignErr  error
	recipients map[string]*models.User
	pairings   []models.Pairing
}

func (f *fakeGame) Phase(context.Context) (*models.GameState, error) {
	s := f.state
	return &s, nil
}

func (f *fakeGame) Participants(context.Context) ([]*models.User, error) {
	return []*models.User{admin, bob}, nil
}

func (f *fakeGame) Assign(context.Context) (int, error) {
	if f.assignErr != nil {
		return 0, f.assignErr
	}
	f.state.Assigned = true
	return 2, nil
}

func (f *fakeGame) MyChrima(_ context.Context, caller *models.User) (*models.User, error) {
	if !f.state.Assigned {
		return nil, common.ErrNotAssignedYet
	}
	return f.recipients[caller.ID], nil
}

func (f *fakeGame) ViewMyChrima(ctx context.Context, caller *models.User) (*models.User, error) {
	if !f.state.RevealEnabled {
		return nil, common.ErrRevealNotEnabled
	}
	return f.MyChrima(ctx, caller)
}

func (f *fakeGame) EnableReveal(context.Context) error {
	f.state.RevealEnabled = true
	return nil
}

func (f *fakeGame) Reveal(context.Context) ([]models.Pairing, error) {
	return f.pairings, nil
}

type fakeTasks struct {
	assigned bool
	given    []string
	inbox    []*models.Task
}

func (f *fakeTasks) GiveTask(_ context.Context, sender *models.User, text string) (*models.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.ErrorValidation
	}
	if !f.assigned {
		return nil, common.ErrNotAssignedYet
	}
	f.given = append(f.given, text)
	return &models.Task{ID: "t1", Text: text, SenderID: sender.ID}, nil
}

func (f *fakeTasks) ViewTasks(context.Context, *models.User) ([]*models.Task, error) {
	return f.inbox, nil
}

type harness struct {
	users *fakeUsers
	game  *fakeGame
	tasks *fakeTasks
	h     http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	hs := &harness{
		users: &fakeUsers{},
		game:  &fakeGame{recipients: map[string]*models.User{}},
		tasks: &fakeTasks{},
	}
	s, err := NewServer("127.0.0.1:0", logging.Discard(), hs.users, hs.game, hs.tasks, false)
	require.NoError(t, err)
	hs.h = s.Router()
	return hs
}

// do sends a request carrying token as the session cookie, if non-empty.
func (hs *harness) do(method, target, token string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	hs.h.ServeHTTP(rec, req)
	return rec
}

func (hs *harness) doJSON(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	hs.h.ServeHTTP(rec, req)
	return rec
}
