package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseSender(t *testing.T) {
	assert.Equal(t, SenderUser, ParseSender("user"))
	assert.Equal(t, SenderBot, ParseSender("bot"))
	assert.Equal(t, SenderBot, ParseSender("assistant"))
	assert.Equal(t, SenderBot, ParseSender(""))
}

func TestSessionLabel(t *testing.T) {
	s := Session{ID: uuid.MustParse("3f2a9c1e-0000-4000-8000-000000000001")}
	assert.Equal(t, "Chat 3f2a9c1e", s.Label())
}

func TestAuthStateConstructors(t *testing.T) {
	assert.True(t, Loading().Status.IsLoading)
	assert.False(t, Loading().Status.IsAuthenticated)

	out := SignedOut()
	assert.False(t, out.Status.IsLoading)
	assert.False(t, out.Status.IsAuthenticated)
	assert.Empty(t, out.Email())

	in := SignedIn(User{Email: "a@b.c", EmailVerified: true})
	assert.True(t, in.Status.IsAuthenticated)
	assert.Equal(t, "a@b.c", in.Email())
	assert.True(t, in.User.EmailVerified)
}
