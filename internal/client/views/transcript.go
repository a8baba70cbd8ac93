package views

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/nexuschat/internal/client/models"
	"github.com/dmitrijs2005/nexuschat/internal/client/store"
	"github.com/google/uuid"
)

const errLoadingMessages = "Error loading messages"

// TranscriptState is the live message list of one session, in collaborator
// order (oldest first).
type TranscriptState struct {
	SessionID uuid.UUID
	Messages  []models.Message
	// Loading is true from attach until the first snapshot or error.
	Loading bool
	// Live is true while the subscription feeds updates. It drops on a
	// subscription error or when the feed ends.
	Live  bool
	Error string
}

// TranscriptEvent is published for every applied update that adds at least
// one message. ScrollTo is the newest message, which renderers bring into view.
type TranscriptEvent struct {
	SessionID uuid.UUID
	Appended  []models.Message
	ScrollTo  uuid.UUID
}

// Transcript keeps at most one live message subscription.
//
// Every attach starts a new generation. Updates are applied under mu only
// when they carry the current generation, and a switch bumps the generation
// before cancelling the old feed, so nothing from a previous session is
// applied once Attach or Detach has begun.
type Transcript struct {
	api ChatAPI

	// attachMu serialises Attach and Detach.
	attachMu sync.Mutex

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}

	state  *store.Signal[TranscriptState]
	events *store.Signal[TranscriptEvent]
}

func NewTranscript(api ChatAPI) *Transcript {
	return &Transcript{
		api:    api,
		state:  store.NewSignal(TranscriptState{}),
		events: store.NewSignal(TranscriptEvent{}),
	}
}

func (t *Transcript) State() *store.Signal[TranscriptState] { return t.state }

// Live reports whether sessionID is attached and still receiving updates.
func (t *Transcript) Live(sessionID uuid.UUID) bool {
	s := t.state.Get()
	return s.SessionID == sessionID && s.Live && s.Error == ""
}

// Watch subscribes fn to append events.
func (t *Transcript) Watch(fn func(TranscriptEvent)) (unsubscribe func()) {
	return t.events.Subscribe(fn)
}

// Attach subscribes to sessionID, first cancelling the previous
// subscription and waiting for its feed to stop.
func (t *Transcript) Attach(ctx context.Context, sessionID uuid.UUID) error {
	t.attachMu.Lock()
	defer t.attachMu.Unlock()

	t.stop()

	subCtx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	gen := t.gen
	t.cancel = cancel
	t.state.Set(TranscriptState{SessionID: sessionID, Loading: true, Live: true})
	t.mu.Unlock()

	ch, err := t.api.SubscribeMessages(subCtx, sessionID)
	if err != nil {
		cancel()
		t.apply(gen, func(s *TranscriptState) {
			s.Loading = false
			s.Live = false
			s.Error = errLoadingMessages
		})
		return &DataError{Message: errLoadingMessages, Err: err}
	}

	done := make(chan struct{})
	t.mu.Lock()
	t.done = done
	t.mu.Unlock()

	go t.pump(subCtx, gen, ch, done)
	return nil
}

// Detach cancels the current subscription, if any, and clears the transcript.
func (t *Transcript) Detach() {
	t.attachMu.Lock()
	defer t.attachMu.Unlock()

	t.stop()

	t.mu.Lock()
	t.state.Set(TranscriptState{})
	t.mu.Unlock()
}

// stop invalidates the current generation, cancels its feed and waits for
// its pump to exit. Callers hold attachMu.
func (t *Transcript) stop() {
	t.mu.Lock()
	t.gen++
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (t *Transcript) pump(ctx context.Context, gen uint64, ch <-chan models.MessagesUpdate, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-ch:
			if !ok {
				t.apply(gen, func(s *TranscriptState) { s.Loading = false; s.Live = false })
				return
			}
			if u.Err != nil {
				t.apply(gen, func(s *TranscriptState) {
					s.Loading = false
					s.Live = false
					s.Error = errLoadingMessages
				})
				return
			}
			t.applyMessages(gen, u.Messages)
		}
	}
}

func (t *Transcript) apply(gen uint64, fn func(s *TranscriptState)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen {
		return
	}
	s := t.state.Get()
	fn(&s)
	t.state.Set(s)
}

func (t *Transcript) applyMessages(gen uint64, msgs []models.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen {
		return
	}

	prev := t.state.Get()
	seen := make(map[uuid.UUID]struct{}, len(prev.Messages))
	for _, m := range prev.Messages {
		seen[m.ID] = struct{}{}
	}
	var appended []models.Message
	for _, m := range msgs {
		if _, ok := seen[m.ID]; !ok {
			appended = append(appended, m)
		}
	}

	t.state.Set(TranscriptState{SessionID: prev.SessionID, Messages: msgs, Live: prev.Live})

	if len(appended) > 0 {
		t.events.Set(TranscriptEvent{
			SessionID: prev.SessionID,
			Appended:  appended,
			ScrollTo:  msgs[len(msgs)-1].ID,
		})
	}
}
