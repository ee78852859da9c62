package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewManager(rdb, "test-secret", 7*24*time.Hour, false), mr
}

func testContext(req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := w.Result()
	defer res.Body.Close()
	for _, ck := range res.Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestEstablish_IssuesSession(t *testing.T) {
	m, _ := newTestManager(t)
	c, w := testContext(httptest.NewRequest(http.MethodPost, "/api/login", nil))

	id, err := m.Establish(c, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	data, found, err := m.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "user-1", data.UserID)

	ck := sessionCookie(t, w)
	assert.True(t, ck.HttpOnly)
	parsed, ok := m.ParseCookie(ck.Value)
	require.True(t, ok)
	assert.Equal(t, id, parsed)
}

func TestEstablish_RegeneratesPriorSession(t *testing.T) {
	m, _ := newTestManager(t)

	first, w1 := testContext(httptest.NewRequest(http.MethodPost, "/api/login", nil))
	oldID, err := m.Establish(first, "user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.AddCookie(sessionCookie(t, w1))
	second, _ := testContext(req)

	newID, err := m.Establish(second, "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, oldID, newID, "session id must change on re-login")

	_, found, err := m.Get(context.Background(), oldID)
	require.NoError(t, err)
	assert.False(t, found, "old session must be destroyed")
}

func TestEstablish_SetsTTL(t *testing.T) {
	m, mr := newTestManager(t)
	c, _ := testContext(httptest.NewRequest(http.MethodPost, "/api/login", nil))

	id, err := m.Establish(c, "user-1")
	require.NoError(t, err)

	ttl := mr.TTL(keyPrefix + id)
	assert.InDelta(t, (7 * 24 * time.Hour).Seconds(), ttl.Seconds(), 5)
}

func TestEstablish_SaveFailureIsTyped(t *testing.T) {
	m, mr := newTestManager(t)
	mr.Close()

	c, w := testContext(httptest.NewRequest(http.MethodPost, "/api/login", nil))
	_, err := m.Establish(c, "user-1")
	require.Error(t, err)

	var se *EstablishError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "save", se.Step)
	res := w.Result()
	defer res.Body.Close()
	assert.Empty(t, res.Cookies(), "no cookie on failed establishment")
}

func TestParseCookie_RejectsTampering(t *testing.T) {
	m, _ := newTestManager(t)

	value := m.CookieValue("some-session-id")
	_, ok := m.ParseCookie(value)
	assert.True(t, ok)

	_, ok = m.ParseCookie("some-other-id." + value[len("some-session-id")+1:])
	assert.False(t, ok)
	_, ok = m.ParseCookie("garbage")
	assert.False(t, ok)
	_, ok = m.ParseCookie("")
	assert.False(t, ok)
}

func TestDestroy(t *testing.T) {
	m, _ := newTestManager(t)
	c, _ := testContext(httptest.NewRequest(http.MethodPost, "/api/login", nil))

	id, err := m.Establish(c, "user-1")
	require.NoError(t, err)
	require.NoError(t, m.Destroy(context.Background(), id))

	_, found, err := m.Get(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, found)
}
