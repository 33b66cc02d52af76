package jwtservice_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/streaks/internal/error_values"
	"github.com/limbo/streaks/pkg/entity"
	jwtservice "github.com/limbo/streaks/pkg/jwt_service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	serv := jwtservice.New("secret", time.Minute)
	user := &entity.User{ID: uuid.New(), Email: "test@example.com"}

	token, err := serv.GenerateToken(user)
	require.NoError(t, err)

	claims, err := serv.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
}

func TestParseInvalid(t *testing.T) {
	serv := jwtservice.New("secret", time.Minute)
	other := jwtservice.New("other_secret", time.Minute)
	expired := jwtservice.New("secret", time.Nanosecond)
	user := &entity.User{ID: uuid.New()}

	foreign, err := other.GenerateToken(user)
	require.NoError(t, err)
	_, err = serv.ParseToken(foreign)
	assert.ErrorIs(t, err, errorvalues.ErrInvalidToken)

	old, err := expired.GenerateToken(user)
	require.NoError(t, err)
	time.Sleep(time.Second + 10*time.Millisecond)
	_, err = serv.ParseToken(old)
	assert.ErrorIs(t, err, errorvalues.ErrInvalidToken)

	_, err = serv.ParseToken("not.a.token")
	assert.ErrorIs(t, err, errorvalues.ErrInvalidToken)
}
