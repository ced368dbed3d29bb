package initdata

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tma-backend/internal/common/config"
	"tma-backend/internal/features/user/models"
)

func TestSignedParserParse(t *testing.T) {
	raw := signedEnvelope(t, testToken, map[string]string{
		"user":          `{"id":123,"first_name":"Ann","last_name":"Lee","username":"ann","language_code":"de","is_premium":true,"photo_url":"https://t.me/i/ann.jpg","allows_write_to_pm":true}`,
		"auth_date":     "1700000000",
		"query_id":      "AAHdF6IQAAAAAN0XohDhrOrc",
		"chat_type":     "private",
		"chat_instance": "-3788475317572404878",
		"start_param":   "r123",
	})

	got, err := SignedParser{}.Parse(raw)
	require.NoError(t, err)

	want := models.Identity{
		ID:           123,
		FirstName:    "Ann",
		LastName:     "Lee",
		Username:     "ann",
		LanguageCode: "de",
		IsPremium:    true,
		PhotoURL:     "https://t.me/i/ann.jpg",
	}
	if diff := cmp.Diff(want, got.User); diff != "" {
		t.Errorf("identity mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), got.AuthDate)
	assert.Equal(t, "AAHdF6IQAAAAAN0XohDhrOrc", got.QueryID)
	assert.Equal(t, "private", got.ChatType)
	assert.Equal(t, "-3788475317572404878", got.ChatInstance)
	assert.Equal(t, "r123", got.StartParam)
	assert.NotEmpty(t, got.Hash)
}

func TestSignedParserErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no user", raw: "auth_date=1700000000&hash=abc"},
		{name: "user not json", raw: "user=not-json&auth_date=1700000000&hash=abc"},
		{name: "user id wrong type", raw: "user=%7B%22id%22%3A%22x%22%7D&hash=abc"},
		{name: "user without id", raw: "user=%7B%22first_name%22%3A%22A%22%7D&hash=abc"},
		{name: "auth_date not integer", raw: "user=%7B%22id%22%3A1%7D&auth_date=soon&hash=abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SignedParser{}.Parse(tt.raw)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.NotEmpty(t, perr.Reason)
		})
	}
}

func TestSignedParserUndecodablePayload(t *testing.T) {
	_, err := SignedParser{}.Parse("user=not-json&auth_date=1700000000&hash=abc")
	var perr *ParseError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, "payload is not decodable", perr.Reason)
	assert.Error(t, perr.Unwrap())
}

func TestMockPayload(t *testing.T) {
	now := time.Unix(1700000000, 0)

	def := MockPayload("mock_data", now)
	assert.Equal(t, int64(123456789), def.User.ID)
	assert.Equal(t, "testuser", def.User.Username)
	assert.Equal(t, "Test", def.User.FirstName)
	assert.Empty(t, def.StartParam)

	b := MockPayload("mock_user_b", now)
	assert.Equal(t, int64(836030226), b.User.ID)
	assert.Equal(t, "userb", b.User.Username)
	assert.Equal(t, "User b", b.User.FirstName)
	assert.Equal(t, "User", b.User.LastName)
	assert.Equal(t, "en", b.User.LanguageCode)

	c := MockPayload("mock_user_c", now)
	assert.Equal(t, int64(836030225), c.User.ID)
	assert.NotEqual(t, b.User.ID, c.User.ID)

	again := MockPayload("mock_user_b|R123", now.Add(time.Hour))
	assert.Equal(t, b.User.ID, again.User.ID)
	assert.Equal(t, "R123", again.StartParam)
	assert.Equal(t, "mock_hash", again.Hash)

	assert.True(t, b.User.ID < 1_000_000_000)
}

func TestIsMock(t *testing.T) {
	assert.True(t, IsMock("mock_data"))
	assert.True(t, IsMock("mock_user_b|R1"))
	assert.False(t, IsMock("user=%7B%7D&hash=1"))
	assert.False(t, IsMock("mockdata"))
	assert.False(t, IsMock(""))
}

func TestStrategyProductionRejectsMock(t *testing.T) {
	s := NewStrategy(config.ModeProduction, testToken, 0)
	assert.False(t, s.Mock)

	_, err := s.Authenticate("mock_data")
	assert.ErrorIs(t, err, ErrInvalidSignature)
	_, err = s.Authenticate("mock_user_b|R123")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	raw := signedEnvelope(t, testToken, map[string]string{
		"user":      `{"id":123,"first_name":"Ann"}`,
		"auth_date": "1700000000",
	})
	p, err := s.Authenticate(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(123), p.User.ID)
}

func TestStrategyProductionWithoutTokenFailsClosed(t *testing.T) {
	s := NewStrategy(config.ModeProduction, "", 0)
	raw := signedEnvelope(t, testToken, map[string]string{
		"user":      `{"id":123,"first_name":"Ann"}`,
		"auth_date": "1700000000",
	})
	_, err := s.Authenticate(raw)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestStrategyDevelopment(t *testing.T) {
	s := NewStrategy(config.ModeDevelopment, testToken, 0)
	assert.True(t, s.Mock)

	p, err := s.Authenticate("mock_user_b|R123")
	require.NoError(t, err)
	assert.Equal(t, int64(836030226), p.User.ID)
	assert.Equal(t, "R123", p.StartParam)

	// real envelopes are still verified in development
	_, err = s.Authenticate("user=%7B%22id%22%3A1%7D&hash=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	raw := signedEnvelope(t, testToken, map[string]string{
		"user":      `{"id":5,"first_name":"Bo"}`,
		"auth_date": "1700000000",
	})
	p, err = s.Authenticate(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.User.ID)
}
