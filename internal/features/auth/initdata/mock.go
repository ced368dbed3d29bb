package initdata

import (
	"strings"
	"time"
	"unicode/utf16"

	"tma-backend/internal/features/user/models"
)

const (
	mockDefault = "mock_data"
	mockPrefix  = "mock_"
	mockHash    = "mock_hash"
)

// IsMock reports whether raw is a development sentinel rather than real init-data.
func IsMock(raw string) bool {
	return raw == mockDefault || strings.HasPrefix(raw, mockPrefix)
}

// MockVerifier accepts development sentinels and hands everything else to next.
// It must only be installed in development mode.
type MockVerifier struct {
	Next Verifier
}

func (v MockVerifier) Verify(raw string) bool {
	if IsMock(raw) {
		return true
	}
	return v.Next.Verify(raw)
}

// MockParser synthesizes payloads for sentinels and hands everything else to next.
type MockParser struct {
	Next Parser
	Now  func() time.Time
}

func (p MockParser) Parse(raw string) (*Payload, error) {
	if !IsMock(raw) {
		return p.Next.Parse(raw)
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return MockPayload(raw, now()), nil
}

// MockPayload builds a deterministic payload from a sentinel of the form
// mock_data, mock_<name> or mock_<name>|<start_param>.
func MockPayload(raw string, now time.Time) *Payload {
	identifier, startParam := raw, ""
	if parts := strings.Split(raw, "|"); len(parts) > 1 {
		identifier, startParam = parts[0], parts[1]
	}

	user := models.Identity{
		ID:           123456789,
		FirstName:    "Test",
		LastName:     "User",
		Username:     "testuser",
		LanguageCode: "en",
	}
	if identifier != mockDefault {
		name := strings.Replace(identifier, mockPrefix, "", 1)
		user.ID = mockUserID(name)
		user.Username = strings.Replace(name, "_", "", 1)
		user.FirstName = displayName(name)
	}

	return &Payload{
		User:       user,
		AuthDate:   time.Unix(now.Unix(), 0).UTC(),
		Hash:       mockHash,
		StartParam: startParam,
	}
}

// mockUserID maps a name to a stable id below 1e9 using the classic 31-based
// 32-bit string hash over UTF-16 code units.
func mockUserID(name string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(name)) {
		h = h*31 + int32(c)
	}
	id := int64(h)
	if id < 0 {
		id = -id
	}
	return id % 1_000_000_000
}

// displayName upper-cases the first rune and turns the first underscore
// after it into a space: user_b -> "User b".
func displayName(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + strings.Replace(string(r[1:]), "_", " ", 1)
}
