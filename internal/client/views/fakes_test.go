package views

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/nexuschat/internal/client/models"
	"github.com/google/uuid"
)

// ---- fake identity ----

type fakeIdentity struct {
	mu    sync.Mutex
	calls []string

	SignInErr  error
	SignUpErr  error
	SendErr    []error // consumed one per call; nil entries succeed
	SignOutErr error

	// block, when set, holds every call until it is closed.
	block chan struct{}
	// entered receives one value per call that reached the fake.
	entered chan string
}

func (f *fakeIdentity) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- call
	}
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeIdentity) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) error {
	f.record("signin:" + email)
	return f.SignInErr
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password string) error {
	f.record("signup:" + email)
	return f.SignUpErr
}

func (f *fakeIdentity) SendVerificationEmail(ctx context.Context, email string) error {
	f.record("verify:" + email)
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.SendErr) == 0 {
		return nil
	}
	err := f.SendErr[0]
	f.SendErr = f.SendErr[1:]
	return err
}

func (f *fakeIdentity) SignOut(ctx context.Context) error {
	f.record("signout")
	return f.SignOutErr
}

// ---- fake chat API ----

type fakeSub struct {
	ctx context.Context
	ch  chan models.MessagesUpdate
}

type fakeChat struct {
	mu    sync.Mutex
	calls []string

	Sessions   []models.Session
	ListErr    error
	CreateRet  models.Session
	CreateErr  error
	InsertErr  error
	TriggerErr error
	SubErr     error

	// hooks run inside the corresponding call, before it returns
	OnInsert  func()
	OnTrigger func()

	subs []*fakeSub
	// prevCancelled records, for each subscribe, whether every earlier
	// subscription context was already cancelled.
	prevCancelled []bool

	createBlock chan struct{}
}

func (f *fakeChat) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeChat) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeChat) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	f.record("list:" + userID.String())
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Sessions, f.ListErr
}

func (f *fakeChat) CreateSession(ctx context.Context) (models.Session, error) {
	f.record("create")
	if f.createBlock != nil {
		<-f.createBlock
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr == nil {
		f.Sessions = append([]models.Session{f.CreateRet}, f.Sessions...)
	}
	return f.CreateRet, f.CreateErr
}

func (f *fakeChat) SubscribeMessages(ctx context.Context, sessionID uuid.UUID) (<-chan models.MessagesUpdate, error) {
	f.record("subscribe:" + sessionID.String())
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SubErr != nil {
		return nil, f.SubErr
	}

	all := true
	for _, s := range f.subs {
		if s.ctx.Err() == nil {
			all = false
		}
	}
	f.prevCancelled = append(f.prevCancelled, all)

	s := &fakeSub{ctx: ctx, ch: make(chan models.MessagesUpdate, 16)}
	f.subs = append(f.subs, s)
	return s.ch, nil
}

func (f *fakeChat) sub(i int) *fakeSub {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs[i]
}

func (f *fakeChat) InsertMessage(ctx context.Context, sessionID uuid.UUID, content string) (models.Message, error) {
	f.record(fmt.Sprintf("insert:%s:%s", sessionID, content))
	if f.OnInsert != nil {
		f.OnInsert()
	}
	if f.InsertErr != nil {
		return models.Message{}, f.InsertErr
	}
	return models.Message{ID: uuid.New(), SessionID: sessionID, Content: content, Sender: models.SenderUser, CreatedAt: time.Now()}, nil
}

func (f *fakeChat) TriggerBotReply(ctx context.Context, sessionID uuid.UUID, content string) (models.BotReply, error) {
	f.record(fmt.Sprintf("trigger:%s:%s", sessionID, content))
	if f.OnTrigger != nil {
		f.OnTrigger()
	}
	if f.TriggerErr != nil {
		return models.BotReply{}, f.TriggerErr
	}
	return models.BotReply{Reply: "hi!"}, nil
}

func msg(session uuid.UUID, content string, sender models.Sender) models.Message {
	return models.Message{ID: uuid.New(), SessionID: session, Content: content, Sender: sender, CreatedAt: time.Now()}
}

var (
	s1 = uuid.MustParse("11111111-0000-4000-8000-000000000001")
	s2 = uuid.MustParse("22222222-0000-4000-8000-000000000002")
)
