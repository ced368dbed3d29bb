package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const webAppDataKey = "WebAppData"

// Verifier decides whether an init-data string may be trusted.
type Verifier interface {
	Verify(raw string) bool
}

// SignatureVerifier checks the Telegram HMAC signature and, optionally,
// how old auth_date is.
type SignatureVerifier struct {
	secret string
	ttl    time.Duration
	now    func() time.Time
}

// NewSignatureVerifier returns a verifier for the given bot token.
// ttl <= 0 disables the freshness check.
func NewSignatureVerifier(botToken string, ttl time.Duration) *SignatureVerifier {
	return &SignatureVerifier{secret: botToken, ttl: ttl, now: time.Now}
}

func (v *SignatureVerifier) Verify(raw string) bool {
	if !Verify(raw, v.secret) {
		return false
	}
	if v.ttl <= 0 {
		return true
	}
	values, _ := url.ParseQuery(raw)
	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil || authDate <= 0 {
		return false
	}
	return v.now().Sub(time.Unix(authDate, 0)) <= v.ttl
}

// Verify reports whether envelope carries a valid signature for secret.
// An empty secret never verifies.
func Verify(envelope, secret string) bool {
	if secret == "" || envelope == "" {
		return false
	}
	values, err := url.ParseQuery(envelope)
	if err != nil {
		return false
	}
	hash := values.Get("hash")
	if hash == "" {
		return false
	}
	values.Del("hash")

	expected := sign(dataCheckString(values), secret)
	return hmac.Equal([]byte(expected), []byte(hash))
}

// Sign returns the hex signature Telegram would attach to values.
// The hash key, if present, is ignored.
func Sign(values url.Values, secret string) string {
	clean := url.Values{}
	for k, vs := range values {
		if k != "hash" {
			clean[k] = vs
		}
	}
	return sign(dataCheckString(clean), secret)
}

func dataCheckString(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range values[k] {
			pairs = append(pairs, k+"="+v)
		}
	}
	return strings.Join(pairs, "\n")
}

func sign(checkString, secret string) string {
	keyMac := hmac.New(sha256.New, []byte(webAppDataKey))
	keyMac.Write([]byte(secret))
	key := keyMac.Sum(nil)

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(checkString))
	return hex.EncodeToString(mac.Sum(nil))
}
