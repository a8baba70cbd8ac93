package views

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/nexuschat/internal/client/store"
	"github.com/google/uuid"
)

// Phase is the composer's send progress.
type Phase int

const (
	PhaseIdle Phase = iota
	// PhaseSending covers the user-message insert.
	PhaseSending
	// PhaseBotComposing covers the bot-reply trigger.
	PhaseBotComposing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSending:
		return "sending"
	case PhaseBotComposing:
		return "bot-composing"
	default:
		return "unknown"
	}
}

const errSendFailed = "Failed to send message"

type ComposerState struct {
	SessionID uuid.UUID
	Draft     string
	Phase     Phase
	Error     string
}

// Composer submits the draft to the bound session.
type Composer struct {
	api ChatAPI

	mu    sync.Mutex
	state *store.Signal[ComposerState]
}

func NewComposer(api ChatAPI) *Composer {
	return &Composer{api: api, state: store.NewSignal(ComposerState{})}
}

func (c *Composer) State() *store.Signal[ComposerState] { return c.state }

func (c *Composer) Draft() string      { return c.state.Get().Draft }
func (c *Composer) Phase() Phase       { return c.state.Get().Phase }
func (c *Composer) BotComposing() bool { return c.state.Get().Phase == PhaseBotComposing }

// CanSubmit reports whether the submit control is enabled.
func (c *Composer) CanSubmit() bool {
	s := c.state.Get()
	return s.Phase == PhaseIdle && s.SessionID != uuid.Nil
}

func (c *Composer) SetDraft(draft string) {
	c.state.Update(func(s ComposerState) ComposerState { s.Draft = draft; return s })
}

// Bind points the composer at sessionID with an empty draft. A send still in
// flight keeps its phase and finishes against its own session.
func (c *Composer) Bind(sessionID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Update(func(s ComposerState) ComposerState {
		return ComposerState{SessionID: sessionID, Phase: s.Phase}
	})
}

// Unbind detaches the composer from any session.
func (c *Composer) Unbind() {
	c.Bind(uuid.Nil)
}

// Submit sends the trimmed draft: it clears the draft, inserts the user
// message, and only after the insert succeeded triggers the bot reply.
// An empty draft, a send in progress or a missing session make it a no-op.
// On failure the trimmed text is put back into the draft.
func (c *Composer) Submit(ctx context.Context) error {
	c.mu.Lock()
	s := c.state.Get()
	text := strings.TrimSpace(s.Draft)
	if text == "" || s.Phase != PhaseIdle || s.SessionID == uuid.Nil {
		c.mu.Unlock()
		return nil
	}
	sid := s.SessionID
	c.state.Set(ComposerState{SessionID: sid, Phase: PhaseSending})
	c.mu.Unlock()

	if _, err := c.api.InsertMessage(ctx, sid, text); err != nil {
		return c.fail(sid, text, err)
	}

	c.setPhase(PhaseBotComposing)

	if _, err := c.api.TriggerBotReply(ctx, sid, text); err != nil {
		return c.fail(sid, text, err)
	}

	c.setPhase(PhaseIdle)
	return nil
}

func (c *Composer) setPhase(p Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Update(func(s ComposerState) ComposerState { s.Phase = p; return s })
}

func (c *Composer) fail(sid uuid.UUID, text string, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	serr := &SendError{Message: describe(err, errSendFailed), Err: err}
	c.state.Update(func(s ComposerState) ComposerState {
		s.Phase = PhaseIdle
		if s.SessionID == sid {
			s.Draft = text
			s.Error = serr.Message
		}
		return s
	})
	return serr
}
