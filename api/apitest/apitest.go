// Package apitest serves route managers behind the real session middleware,
// so handler tests go through token parsing and role checks.
package apitest

import (
	"bytes"
	"coffeeshop_server/api/middleware"
	"coffeeshop_server/lib"
	"coffeeshop_server/services"
	"coffeeshop_server/structs"
	"coffeeshop_server/structs/tables"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const secret = "handler-test-secret"

func Config() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{AppName: "Coffee Shop POS", Location: time.UTC},
		Auth: &structs.AuthConfig{
			AccessTokenSecret: secret,
			AccessTokenExpiry: time.Hour,
			BlacklistCacheTTL: time.Hour,
			CacheUserTTL:      time.Minute,
			BcryptCost:        4,
		},
		Cache:  &structs.CacheConfig{},
		Email:  &structs.EmailConfig{From: "pos@example.com"},
		Broker: &structs.BrokerConfig{OrderExchange: "orders_topic"},
		Orders: &structs.OrdersConfig{StrictTransitions: true, NumberPrefix: "ORD", NumberAttempts: 3},
	}
}

func Admin() *tables.User {
	return &tables.User{ID: 1, Username: "admin", FullName: "Ada Admin", Role: tables.RoleAdmin, IsActive: true}
}

func Waiter() *tables.User {
	return &tables.User{ID: 7, Username: "wendy", FullName: "Wendy Waiter", Role: tables.RoleWaiter, IsActive: true}
}

func Kitchen() *tables.User {
	return &tables.User{ID: 9, Username: "kai", FullName: "Kai Kitchen", Role: tables.RoleKitchen, IsActive: true}
}

// Users keeps staff in memory and serves FindByID for session lookups. Other
// UserStore methods panic on the nil interface unless a wrapper provides them.
type Users struct {
	services.UserStore

	mu   sync.Mutex
	byID map[int64]*tables.User
}

func NewUsers(users ...*tables.User) *Users {
	u := &Users{byID: make(map[int64]*tables.User)}
	for _, user := range users {
		u.Put(user)
	}
	return u
}

func (u *Users) Put(user *tables.User) {
	u.mu.Lock()
	defer u.mu.Unlock()
	stored := *user
	u.byID[user.ID] = &stored
}

func (u *Users) FindByID(_ context.Context, id int64) (*tables.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.byID[id]
	if !ok {
		return nil, nil
	}
	found := *user
	return &found, nil
}

// NewMiddleware builds session middleware with the cache disabled.
func NewMiddleware(cfg *structs.Config, users services.UserStore) *middleware.Middleware {
	logger := gecho.NewDefaultLogger()
	cache := services.NewCacheService(logger, cfg)
	return middleware.NewMiddleware(logger, cfg, services.NewAuthService(logger, cfg, users, cache), cache)
}

type RoutesManager interface {
	RegisterRoutes(r chi.Router)
}

func NewRouter(managers ...RoutesManager) chi.Router {
	r := chi.NewRouter()
	for _, m := range managers {
		m.RegisterRoutes(r)
	}
	return r
}

// Token signs an access token for user.
func Token(t testing.TB, user *tables.User) string {
	t.Helper()

	now := time.Now()
	token, err := lib.SignToken(&structs.AuthClaims{
		Sub:      user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		Iat:      now,
		Exp:      now.Add(time.Hour),
		Jti:      uuid.New(),
	}, secret)
	require.NoError(t, err)
	return token
}

// Response is the decoded JSON envelope. Data stays raw for the caller to
// decode into the type it expects.
type Response struct {
	Code    int             `json:"-"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// DataAs decodes the payload into T.
func DataAs[T any](t testing.TB, resp *Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out), "data: %s", resp.Data)
	return out
}

// Do sends one request as the holder of token; an empty token sends none.
// body is marshalled to JSON unless it already is a string.
func Do(t testing.TB, h http.Handler, method, path, token string, body any) *Response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	resp := &Response{Code: rec.Code}
	// chi's own 404 and 405 answers are plain text
	_ = json.Unmarshal(rec.Body.Bytes(), resp)
	return resp
}
