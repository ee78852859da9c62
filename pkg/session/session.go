package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"grocerylist-api/pkg/helpers"
)

// CookieName is the session cookie issued on login.
const CookieName = "session_id"

const keyPrefix = "session:"

// Data is the payload stored under a session key.
type Data struct {
	UserID string `json:"user_id"`
}

// EstablishError reports which of the two mandatory establishment steps
// failed. Neither failure may be swallowed: the caller logs it and responds
// with a server error instead of redirecting.
type EstablishError struct {
	Step string // "regenerate" or "save"
	Err  error
}

func (e *EstablishError) Error() string {
	return fmt.Sprintf("session %s failed: %v", e.Step, e.Err)
}

func (e *EstablishError) Unwrap() error { return e.Err }

// Manager issues, verifies, and destroys server-side sessions backed by a
// shared Redis store so multiple API instances see the same state. Cookies
// carry "<id>.<hmac>" signed with the session secret; the id alone is the
// Redis key suffix.
type Manager struct {
	rdb    *redis.Client
	secret []byte

	TTL          time.Duration
	CookieSecure bool
}

func NewManager(rdb *redis.Client, secret string, ttl time.Duration, cookieSecure bool) *Manager {
	return &Manager{rdb: rdb, secret: []byte(secret), TTL: ttl, CookieSecure: cookieSecure}
}

func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CookieValue returns the signed cookie representation of a session id.
func (m *Manager) CookieValue(id string) string {
	return id + "." + m.sign(id)
}

// ParseCookie extracts and authenticates the session id from a cookie value.
func (m *Manager) ParseCookie(value string) (string, bool) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 {
		return "", false
	}
	id, sig := value[:i], value[i+1:]
	if !hmac.Equal([]byte(sig), []byte(m.sign(id))) {
		return "", false
	}
	return id, true
}

// Get loads the session payload for an id. The second return is false when
// the session does not exist (expired or destroyed).
func (m *Manager) Get(ctx context.Context, id string) (Data, bool, error) {
	var d Data
	found, err := helpers.RedisGetJSON(ctx, m.rdb, keyPrefix+id, &d)
	return d, found, err
}

// Destroy removes a session from the store.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	return helpers.RedisDel(ctx, m.rdb, keyPrefix+id)
}

// Establish runs the two-step login transaction: regenerate (drop whatever
// session the inbound cookie references, mint a fresh id) and save (persist
// the payload under the new id with the full TTL). Only when both steps
// succeed is the cookie set on the response. The TTL is refreshed here and
// only here, not on every request.
func (m *Manager) Establish(c *gin.Context, userID string) (string, error) {
	ctx := c.Request.Context()

	if prev, err := c.Cookie(CookieName); err == nil && prev != "" {
		if oldID, ok := m.ParseCookie(prev); ok {
			if err := m.Destroy(ctx, oldID); err != nil {
				return "", &EstablishError{Step: "regenerate", Err: err}
			}
		}
	}

	id, err := newID()
	if err != nil {
		return "", &EstablishError{Step: "regenerate", Err: err}
	}

	if err := helpers.RedisSetJSON(ctx, m.rdb, keyPrefix+id, Data{UserID: userID}, m.TTL); err != nil {
		return "", &EstablishError{Step: "save", Err: err}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, m.CookieValue(id), int(m.TTL.Seconds()), "/", "", m.CookieSecure, true)
	return id, nil
}

// FromRequest returns the authenticated session id carried by the request
// cookie, if any.
func (m *Manager) FromRequest(c *gin.Context) (string, bool) {
	value, err := c.Cookie(CookieName)
	if err != nil || value == "" {
		return "", false
	}
	return m.ParseCookie(value)
}

// Clear expires the session cookie on the response.
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.CookieSecure, true)
}
