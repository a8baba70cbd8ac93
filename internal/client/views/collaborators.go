package views

import (
	"context"

	"github.com/dmitrijs2005/nexuschat/internal/client/models"
	"github.com/google/uuid"
)

// Identity is the identity collaborator. Its results reach the views through
// the shared authentication signal, not through return values.
type Identity interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SendVerificationEmail(ctx context.Context, email string) error
	SignOut(ctx context.Context) error
}

// ChatAPI is the data collaborator.
type ChatAPI interface {
	ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error)
	CreateSession(ctx context.Context) (models.Session, error)
	SubscribeMessages(ctx context.Context, sessionID uuid.UUID) (<-chan models.MessagesUpdate, error)
	InsertMessage(ctx context.Context, sessionID uuid.UUID, content string) (models.Message, error)
	TriggerBotReply(ctx context.Context, sessionID uuid.UUID, content string) (models.BotReply, error)
}
