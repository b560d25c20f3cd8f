package lib

import (
	"bytes"
	"coffeeshop_server/structs"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMapPgError(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	mapped := MapPgError(fmt.Errorf("insert user: %w", unique))
	assert.ErrorIs(t, mapped, ErrConflict)
	assert.True(t, IsUniqueViolation(mapped))
	assert.Equal(t, "users_username_key", ConstraintName(mapped))

	fk := &pgconn.PgError{Code: "23503"}
	assert.ErrorIs(t, MapPgError(fk), ErrReferenced)

	noData := &pgconn.PgError{Code: "P0002"}
	assert.True(t, IsNotFound(MapPgError(noData)))

	other := errors.New("connection refused")
	assert.Same(t, other, MapPgError(other))
	assert.Nil(t, MapPgError(nil))
	assert.Equal(t, "", SQLState(other))
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("create user: %w", NewValidationError("Username must be at least %d characters", 3))
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "Username must be at least 3 characters")

	assert.False(t, IsValidation(ErrNotFound))
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	ok, err := VerifyPassword("secret123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("secret123", "not-a-hash")
	assert.Error(t, err)

	other, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes must be salted")
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^ORD-20260314-[0-9A-F]{8}$`)

	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		number := GenerateOrderNumber("", now)
		require.Regexp(t, pattern, number)
		_, dup := seen[number]
		require.False(t, dup, "duplicate order number %s", number)
		seen[number] = struct{}{}
	}

	assert.Regexp(t, `^TKW-20260314-`, GenerateOrderNumber("TKW", now))
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	claims := &structs.AuthClaims{
		Sub:      42,
		Username: "jdoe",
		Role:     "WAITER",
		Iat:      now,
		Exp:      now.Add(time.Hour),
		Jti:      uuid.New(),
	}

	token, err := SignToken(claims, "secret")
	require.NoError(t, err)

	parsed, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, claims.Sub, parsed.Sub)
	assert.Equal(t, claims.Username, parsed.Username)
	assert.Equal(t, claims.Role, parsed.Role)
	assert.Equal(t, claims.Jti, parsed.Jti)
	assert.True(t, claims.Exp.Equal(parsed.Exp))

	_, err = ParseToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	token, err := SignToken(&structs.AuthClaims{
		Sub: 1, Username: "a", Role: "ADMIN", Iat: past, Exp: past.Add(time.Hour), Jti: uuid.New(),
	}, "secret")
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestExtractToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc.def")
	token, err := ExtractToken(r)
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic xyz")
	_, err = ExtractToken(r)
	assert.ErrorIs(t, err, ErrInvalidToken)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "from-cookie"})
	token, err = ExtractToken(r)
	require.NoError(t, err)
	assert.Equal(t, "from-cookie", token)

	_, err = ExtractToken(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateVarEmail(t *testing.T) {
	assert.NoError(t, ValidateVar("barista@coffee.shop", "omitempty,email"))
	assert.NoError(t, ValidateVar("first.last+pos@example.co", "omitempty,email"))
	assert.NoError(t, ValidateVar("", "omitempty,email"))
	assert.Error(t, ValidateVar("no-at-sign.com", "omitempty,email"))
	assert.Error(t, ValidateVar("two@@signs.com", "omitempty,email"))
}

type loginBody struct {
	Username string `json:"username" validate:"required,min=3"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

func TestExtractAndValidateBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"username":"jdoe","quantity":2}`))
	body, err := ExtractAndValidateBody[loginBody](r)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", body.Username)

	r = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"username":"jd","quantity":0}`))
	_, err = ExtractAndValidateBody[loginBody](r)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2)
	assert.Equal(t, "username", ve.Errors[0].Field)

	r = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"unknown":true}`))
	_, err = ExtractAndValidateBody[loginBody](r)
	assert.True(t, IsValidation(err))

	r = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(``))
	_, err = ExtractAndValidateBody[loginBody](r)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Request body is empty", ve.Message)
}

type ticketLine struct {
	MenuItemID int64 `json:"menu_item_id" validate:"required"`
	Quantity   int   `json:"quantity" validate:"gt=0"`
}

type ticketBody struct {
	Items []ticketLine `json:"items" validate:"dive"`
}

func TestExtractAndValidateBodyNestedFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"items":[{"menu_item_id":1,"quantity":2},{"menu_item_id":2,"quantity":0}]}`))
	_, err := ExtractAndValidateBody[ticketBody](r)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "items[1].quantity", ve.Errors[0].Field)
	assert.Equal(t, "must be greater than 0", ve.Errors[0].Message)
}
