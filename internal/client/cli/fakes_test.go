package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/nexuschat/internal/client/models"
	"github.com/dmitrijs2005/nexuschat/internal/client/store"
	"github.com/dmitrijs2005/nexuschat/internal/logging"
	"github.com/google/uuid"
)

var (
	testUser = models.User{ID: uuid.MustParse("11111111-1111-4111-8111-111111111111"), Email: "ann@example.com", EmailVerified: true}

	s1 = models.Session{ID: uuid.MustParse("3f2a9c1e-0000-4000-8000-000000000001"), CreatedAt: time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)}
	s2 = models.Session{ID: uuid.MustParse("7b10d4aa-0000-4000-8000-000000000002"), CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
)

// fakeIdentity drives the shared auth signal the way the auth service does.
type fakeIdentity struct {
	auth *store.Signal[models.AuthState]

	mu        sync.Mutex
	email     string
	password  string
	signInErr error
	signUpErr error
	sendErr   error
	sends     int
	signOuts  int
	verified  bool
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) error {
	f.mu.Lock()
	f.email, f.password = email, password
	err, verified := f.signInErr, f.verified
	f.mu.Unlock()
	if err != nil {
		return err
	}
	u := testUser
	u.Email = email
	u.EmailVerified = verified
	f.auth.Set(models.SignedIn(u))
	return nil
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email, f.password = email, password
	return f.signUpErr
}

func (f *fakeIdentity) SendVerificationEmail(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = email
	f.sends++
	return f.sendErr
}

func (f *fakeIdentity) SignOut(_ context.Context) error {
	f.mu.Lock()
	f.signOuts++
	f.mu.Unlock()
	f.auth.Set(models.SignedOut())
	return nil
}

type fakeChat struct {
	mu         sync.Mutex
	sessions   []models.Session
	listCalls  int
	listErr    error
	created    models.Session
	inserted   []string
	insertErrs []error
	triggered  []string
	subs       map[uuid.UUID]chan models.MessagesUpdate
	subCalls   int
}

func newFakeChat() *fakeChat {
	return &fakeChat{
		sessions: []models.Session{s1, s2},
		created:  models.Session{ID: uuid.MustParse("c0ffee00-0000-4000-8000-000000000003"), CreatedAt: time.Now()},
		subs:     map[uuid.UUID]chan models.MessagesUpdate{},
	}
}

func (f *fakeChat) ListSessions(_ context.Context, _ uuid.UUID) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Session(nil), f.sessions...), nil
}

func (f *fakeChat) CreateSession(_ context.Context) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append([]models.Session{f.created}, f.sessions...)
	return f.created, nil
}

func (f *fakeChat) SubscribeMessages(_ context.Context, sessionID uuid.UUID) (<-chan models.MessagesUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subCalls++
	ch := make(chan models.MessagesUpdate, 8)
	f.subs[sessionID] = ch
	return ch, nil
}

func (f *fakeChat) push(sessionID uuid.UUID, msgs ...models.Message) {
	f.mu.Lock()
	ch := f.subs[sessionID]
	f.mu.Unlock()
	ch <- models.MessagesUpdate{Messages: msgs}
}

func (f *fakeChat) fail(sessionID uuid.UUID, err error) {
	f.mu.Lock()
	ch := f.subs[sessionID]
	f.mu.Unlock()
	ch <- models.MessagesUpdate{Err: err}
}

func (f *fakeChat) subscribeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subCalls
}

func (f *fakeChat) InsertMessage(_ context.Context, sessionID uuid.UUID, content string) (models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.insertErrs) > 0 {
		err := f.insertErrs[0]
		f.insertErrs = f.insertErrs[1:]
		if err != nil {
			return models.Message{}, err
		}
	}
	f.inserted = append(f.inserted, content)
	return models.Message{ID: uuid.New(), SessionID: sessionID, Content: content, Sender: models.SenderUser}, nil
}

func (f *fakeChat) TriggerBotReply(_ context.Context, _ uuid.UUID, content string) (models.BotReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggered = append(f.triggered, content)
	return models.BotReply{Reply: "ok"}, nil
}

func (f *fakeChat) calls() (list int, inserted, triggered []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, append([]string(nil), f.inserted...), append([]string(nil), f.triggered...)
}

var errBoom = errors.New("boom")

func newTestApp(t *testing.T, initial models.AuthState, width int) (*App, *fakeIdentity, *fakeChat, *printLog) {
	t.Helper()

	prints := capturePrints(t)
	auth := store.NewSignal(initial)
	id := &fakeIdentity{auth: auth, verified: true}
	chat := newFakeChat()

	a := newApp(id, chat, auth, logging.Nop())
	a.width = func() int { return width }
	a.out = io.Discard
	t.Cleanup(a.Close)
	return a, id, chat, prints
}

func stubInputs(t *testing.T, email string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return email, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func containsLine(p *printLog, sub string) bool {
	return strings.Contains(p.Joined(), sub)
}
