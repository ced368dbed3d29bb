package initdata

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	tgdata "github.com/telegram-mini-apps/init-data-golang"

	"tma-backend/internal/features/user/models"
)

// Payload is a decoded init-data envelope.
type Payload struct {
	User         models.Identity
	AuthDate     time.Time
	Hash         string
	QueryID      string
	ChatInstance string
	ChatType     string
	StartParam   string
}

// ParseError is returned when an envelope cannot be decoded into a Payload.
// It is always the client's fault.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("init data: %s: %v", e.Reason, e.Err)
	}
	return "init data: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser decodes an already verified envelope.
type Parser interface {
	Parse(raw string) (*Payload, error)
}

// SignedParser decodes real Telegram envelopes.
type SignedParser struct{}

func (SignedParser) Parse(raw string) (*Payload, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, &ParseError{Reason: "malformed query string", Err: err}
	}
	if values.Get("user") == "" {
		return nil, &ParseError{Reason: "user is missing"}
	}

	data, err := tgdata.Parse(raw)
	if err != nil {
		return nil, &ParseError{Reason: "payload is not decodable", Err: err}
	}
	if data.User.ID <= 0 {
		return nil, &ParseError{Reason: "user id is missing"}
	}

	var authDate time.Time
	if v := values.Get("auth_date"); v != "" {
		sec, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, &ParseError{Reason: "auth_date is not an integer", Err: err}
		}
		authDate = time.Unix(sec, 0).UTC()
	}

	return &Payload{
		User: models.Identity{
			ID:           data.User.ID,
			FirstName:    data.User.FirstName,
			LastName:     data.User.LastName,
			Username:     data.User.Username,
			LanguageCode: data.User.LanguageCode,
			IsPremium:    data.User.IsPremium,
			PhotoURL:     data.User.PhotoURL,
		},
		AuthDate:     authDate,
		Hash:         values.Get("hash"),
		QueryID:      values.Get("query_id"),
		ChatInstance: values.Get("chat_instance"),
		ChatType:     values.Get("chat_type"),
		StartParam:   values.Get("start_param"),
	}, nil
}
