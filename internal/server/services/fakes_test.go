package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/chrima/internal/common"
	"github.com/dmitrijs2005/chrima/internal/dbx"
	"github.com/dmitrijs2005/chrima/internal/server/config"
	"github.com/dmitrijs2005/chrima/internal/server/models"
	"github.com/dmitrijs2005/chrima/internal/server/repositories/gamestate"
	"github.com/dmitrijs2005/chrima/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/chrima/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/chrima/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// expectCommits queues n transactions that commit cleanly.
func expectCommits(mock sqlmock.Sqlmock, n int) {
	for i := 0; i < n; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
}

func testConfig() *config.Config {
	return &config.Config{SecretKey: "k", SessionValidityDuration: time.Hour, MaxShuffleAttempts: 64}
}

// memStore is an in-memory stand-in for the four repositories. Transactions
// are driven by sqlmock; the store itself does not roll back.
type memStore struct {
	mu       sync.Mutex
	users    []*models.User
	tasks    []*models.Task
	state    models.GameState
	sessions map[string]*models.Session
	seq      int

	// fail makes the named operation return the error.
	fail map[string]error
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]*models.Session{}, fail: map[string]error{}}
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memStore) Users(dbx.DBTX) users.Repository              { return memUsers{m} }
func (m *memStore) Tasks(dbx.DBTX) tasks.Repository              { return memTasks{m} }
func (m *memStore) GameState(dbx.DBTX) gamestate.Repository      { return memState{m} }
func (m *memStore) Sessions(dbx.DBTX) sessions.Repository        { return memSessions{m} }

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

// addUser seeds a user bypassing the service.
func (m *memStore) addUser(name string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: "id-" + name, UserName: name, CreatedAt: time.Now()}
	m.users = append(m.users, u)
	return clone(u)
}

func (m *memStore) user(id string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return clone(u)
		}
	}
	return nil
}

func clone(u *models.User) *models.User {
	c := *u
	if u.RecipientID != nil {
		r := *u.RecipientID
		c.RecipientID = &r
	}
	return &c
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail["users.Create"]; err != nil {
		return nil, err
	}
	for _, existing := range r.m.users {
		if existing.UserName == u.UserName {
			return nil, common.ErrDuplicateUser
		}
	}
	if u.ID == "" {
		u.ID = r.m.nextID("user")
	}
	u.CreatedAt = time.Now()
	r.m.users = append(r.m.users, clone(u))
	return u, nil
}

func (r memUsers) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.UserName == login {
			return clone(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if u := r.m.user(id); u != nil {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) Count(context.Context) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return len(r.m.users), nil
}

func (r memUsers) List(context.Context) ([]*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail["users.List"]; err != nil {
		return nil, err
	}
	out := make([]*models.User, len(r.m.users))
	for i, u := range r.m.users {
		out[i] = clone(u)
	}
	return out, nil
}

func (r memUsers) ClearRecipients(context.Context) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		u.RecipientID = nil
	}
	return nil
}

// SetRecipient mirrors the unique index on recipient_id and the no-self check.
func (r memUsers) SetRecipient(_ context.Context, userID, recipientID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail["users.SetRecipient"]; err != nil {
		return err
	}
	if userID == recipientID {
		return errors.New("check constraint: self pairing")
	}
	var target *models.User
	for _, u := range r.m.users {
		if u.RecipientID != nil && *u.RecipientID == recipientID && u.ID != userID {
			return errors.New("unique constraint: recipient already drawn")
		}
		if u.ID == userID {
			target = u
		}
	}
	if target == nil {
		return common.ErrorNotFound
	}
	rid := recipientID
	target.RecipientID = &rid
	return nil
}

func (r memUsers) ListPairings(context.Context) ([]models.Pairing, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	names := map[string]string{}
	for _, u := range r.m.users {
		names[u.ID] = u.UserName
	}
	var out []models.Pairing
	for _, u := range r.m.users {
		if u.RecipientID == nil {
			continue
		}
		out = append(out, models.Pairing{
			GiverID: u.ID, GiverName: u.UserName,
			ReceiverID: *u.RecipientID, ReceiverName: names[*u.RecipientID],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GiverName < out[j].GiverName })
	return out, nil
}

type memTasks struct{ m *memStore }

func (r memTasks) Create(_ context.Context, t *models.Task) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail["tasks.Create"]; err != nil {
		return err
	}
	t.ID = r.m.nextID("task")
	t.CreatedAt = time.Now()
	c := *t
	r.m.tasks = append(r.m.tasks, &c)
	return nil
}

func (r memTasks) ListForRecipient(_ context.Context, recipientID string) ([]*models.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Task
	for _, t := range r.m.tasks {
		if t.RecipientID == recipientID {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

type memState struct{ m *memStore }

func (r memState) Get(context.Context) (*models.GameState, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s := r.m.state
	return &s, nil
}

func (r memState) Lock(ctx context.Context) (*models.GameState, error) {
	if err := r.m.fail["gamestate.Lock"]; err != nil {
		return nil, err
	}
	return r.Get(ctx)
}

func (r memState) SetAssigned(_ context.Context, v bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.state.Assigned = v
	return nil
}

func (r memState) SetRevealEnabled(_ context.Context, v bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.state.RevealEnabled = v
	return nil
}

type memSessions struct{ m *memStore }

func (r memSessions) Create(_ context.Context, userID string, validity time.Duration) (*models.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s := &models.Session{ID: r.m.nextID("sess"), UserID: userID, Expires: time.Now().Add(validity), CreatedAt: time.Now()}
	r.m.sessions[s.ID] = s
	c := *s
	return &c, nil
}

func (r memSessions) Find(_ context.Context, id string) (*models.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *s
	return &c, nil
}

func (r memSessions) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.sessions, id)
	return nil
}
