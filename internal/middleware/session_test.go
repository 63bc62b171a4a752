package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Neakz-star/La-Desesperanza/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory session.Store for middleware tests.
type memStore struct {
	data map[string]session.Data
}

func newMemStore() *memStore { return &memStore{data: make(map[string]session.Data)} }

func (s *memStore) Create(_ context.Context, d session.Data) (string, error) {
	sid := uuid.NewString()
	s.data[sid] = d
	return sid, nil
}

func (s *memStore) Get(_ context.Context, sid string) (*session.Data, error) {
	d, ok := s.data[sid]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &d, nil
}

func (s *memStore) Destroy(_ context.Context, sid string) error {
	delete(s.data, sid)
	return nil
}

func (s *memStore) TTL() time.Duration { return 24 * time.Hour }

var _ session.Store = (*memStore)(nil)

func setupRouter(store session.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(store))
	r.GET("/privado", RequireAuth(), func(c *gin.Context) {
		data, _ := GetSession(c)
		c.JSON(http.StatusOK, gin.H{"username": data.Username})
	})
	r.GET("/admin", RequireAuth(), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doGet(r *gin.Engine, path, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthSinCookie(t *testing.T) {
	r := setupRouter(newMemStore())
	w := doGet(r, "/privado", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "mensaje")
}

func TestRequireAuthCookieInvalida(t *testing.T) {
	r := setupRouter(newMemStore())
	w := doGet(r, "/privado", "sid-que-no-existe")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthConSesion(t *testing.T) {
	store := newMemStore()
	sid, err := store.Create(context.Background(), session.Data{
		UserID:   uuid.NewString(),
		Username: "maria",
	})
	require.NoError(t, err)

	r := setupRouter(store)
	w := doGet(r, "/privado", sid)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "maria")
}

func TestRequireAdmin(t *testing.T) {
	store := newMemStore()
	normal, err := store.Create(context.Background(), session.Data{UserID: uuid.NewString(), Username: "maria"})
	require.NoError(t, err)
	admin, err := store.Create(context.Background(), session.Data{UserID: uuid.NewString(), Username: "root", Admin: true})
	require.NoError(t, err)

	r := setupRouter(store)

	w := doGet(r, "/admin", normal)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doGet(r, "/admin", admin)
	assert.Equal(t, http.StatusOK, w.Code)
}
