package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nexuschat/internal/client/client"
	"github.com/dmitrijs2005/nexuschat/internal/client/models"
	"github.com/dmitrijs2005/nexuschat/internal/logging"
	"github.com/google/uuid"
)

// GraphQL is the data collaborator as seen by ChatService.
// *client.GraphQLClient implements it.
type GraphQL interface {
	Do(ctx context.Context, query string, vars map[string]any, out any) error
	Subscribe(ctx context.Context, query string, vars map[string]any) (<-chan client.SubscriptionEvent, error)
}

const (
	getChatsQuery = `query GetChats($user_id: uuid!) {
  chats(where: {user_id: {_eq: $user_id}}, order_by: {created_at: desc}) {
    id
    created_at
  }
}`

	createChatMutation = `mutation CreateChat {
  insert_chats_one(object: {}) {
    id
    created_at
  }
}`

	addUserMessageMutation = `mutation AddUserMessage($chat_id: uuid!, $content: String!) {
  insert_messages_one(object: {chat_id: $chat_id, content: $content, sender: "user"}) {
    id
    chat_id
    content
    sender
    created_at
  }
}`

	triggerBotResponseMutation = `mutation TriggerBotResponse($chat_id: uuid!, $message: String!) {
  sendMessage(chat_id: $chat_id, message: $message) {
    reply
  }
}`

	getMessagesSubscription = `subscription GetMessages($chat_id: uuid!) {
  messages(where: {chat_id: {_eq: $chat_id}}, order_by: {created_at: asc}) {
    id
    chat_id
    content
    sender
    created_at
  }
}`
)

type chatDTO struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (c chatDTO) toModel() models.Session {
	return models.Session{ID: c.ID, CreatedAt: c.CreatedAt}
}

type messageDTO struct {
	ID        uuid.UUID `json:"id"`
	ChatID    uuid.UUID `json:"chat_id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

func (m messageDTO) toModel() models.Message {
	return models.Message{
		ID:        m.ID,
		SessionID: m.ChatID,
		Content:   m.Content,
		Sender:    models.ParseSender(m.Sender),
		CreatedAt: m.CreatedAt,
	}
}

// ChatService runs the chat documents against the data collaborator.
type ChatService struct {
	gql GraphQL
	log logging.Logger
}

func NewChatService(gql GraphQL, log logging.Logger) *ChatService {
	if log == nil {
		log = logging.Nop()
	}
	return &ChatService{gql: gql, log: log}
}

// ListSessions returns the sessions of userID, newest first.
func (s *ChatService) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	var resp struct {
		Chats []chatDTO `json:"chats"`
	}
	if err := s.gql.Do(ctx, getChatsQuery, map[string]any{"user_id": userID.String()}, &resp); err != nil {
		s.log.Error(ctx, "list sessions", "error", err)
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]models.Session, 0, len(resp.Chats))
	for _, c := range resp.Chats {
		out = append(out, c.toModel())
	}
	return out, nil
}

// CreateSession creates an empty session owned by the caller.
func (s *ChatService) CreateSession(ctx context.Context) (models.Session, error) {
	var resp struct {
		Chat *chatDTO `json:"insert_chats_one"`
	}
	if err := s.gql.Do(ctx, createChatMutation, nil, &resp); err != nil {
		s.log.Error(ctx, "create session", "error", err)
		return models.Session{}, fmt.Errorf("create session: %w", err)
	}
	if resp.Chat == nil {
		return models.Session{}, fmt.Errorf("create session: empty response")
	}
	return resp.Chat.toModel(), nil
}

// InsertMessage stores content as a user message of sessionID.
func (s *ChatService) InsertMessage(ctx context.Context, sessionID uuid.UUID, content string) (models.Message, error) {
	var resp struct {
		Message *messageDTO `json:"insert_messages_one"`
	}
	vars := map[string]any{"chat_id": sessionID.String(), "content": content}
	if err := s.gql.Do(ctx, addUserMessageMutation, vars, &resp); err != nil {
		s.log.Error(ctx, "insert message", "session", sessionID, "error", err)
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	if resp.Message == nil {
		return models.Message{}, fmt.Errorf("insert message: empty response")
	}
	return resp.Message.toModel(), nil
}

// TriggerBotReply asks the bot to answer content in sessionID. The reply is
// persisted server-side and arrives through the message subscription.
func (s *ChatService) TriggerBotReply(ctx context.Context, sessionID uuid.UUID, content string) (models.BotReply, error) {
	var resp struct {
		SendMessage *models.BotReply `json:"sendMessage"`
	}
	vars := map[string]any{"chat_id": sessionID.String(), "message": content}
	if err := s.gql.Do(ctx, triggerBotResponseMutation, vars, &resp); err != nil {
		s.log.Error(ctx, "trigger bot reply", "session", sessionID, "error", err)
		return models.BotReply{}, fmt.Errorf("trigger bot reply: %w", err)
	}
	if resp.SendMessage == nil {
		return models.BotReply{}, nil
	}
	return *resp.SendMessage, nil
}

// SubscribeMessages streams full ordered snapshots of the messages of
// sessionID. The channel is closed after a terminal error update or when ctx
// is cancelled.
func (s *ChatService) SubscribeMessages(ctx context.Context, sessionID uuid.UUID) (<-chan models.MessagesUpdate, error) {
	events, err := s.gql.Subscribe(ctx, getMessagesSubscription, map[string]any{"chat_id": sessionID.String()})
	if err != nil {
		s.log.Error(ctx, "subscribe messages", "session", sessionID, "error", err)
		return nil, fmt.Errorf("subscribe messages: %w", err)
	}

	out := make(chan models.MessagesUpdate)
	go func() {
		defer close(out)

		send := func(u models.MessagesUpdate) bool {
			select {
			case out <- u:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for ev := range events {
			if ev.Err != nil {
				s.log.Warn(ctx, "message subscription failed", "session", sessionID, "error", ev.Err)
				send(models.MessagesUpdate{Err: ev.Err})
				return
			}

			var resp struct {
				Messages []messageDTO `json:"messages"`
			}
			if err := json.Unmarshal(ev.Data, &resp); err != nil {
				send(models.MessagesUpdate{Err: fmt.Errorf("decode messages: %w", err)})
				return
			}

			msgs := make([]models.Message, 0, len(resp.Messages))
			for _, m := range resp.Messages {
				msgs = append(msgs, m.toModel())
			}
			if !send(models.MessagesUpdate{Messages: msgs}) {
				return
			}
		}
	}()
	return out, nil
}
