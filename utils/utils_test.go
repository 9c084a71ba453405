package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundingAndCurrency(t *testing.T) {
	assert.Equal(t, 4.3, RoundTo(4.2857, 1))
	assert.Equal(t, 34.97, RoundMoney(2*12.99+8.99))
	assert.Equal(t, "$1,234.50", FormatCurrency(1234.5))
	assert.Equal(t, "$0.99", FormatCurrency(0.99))
	assert.Equal(t, "-$12.00", FormatCurrency(-12))
	assert.Equal(t, "$1,000,000.00", FormatCurrency(1e6))
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, expiresAt, err := tm.GenerateToken(7, "staff")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "staff", claims.Role)

	_, err = NewTokenManager("other", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	tm.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := tm.GenerateToken(1, "customer")
	require.NoError(t, err)
	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestMemoryBlocklist(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBlocklist()

	require.NoError(t, b.Block(ctx, "live", time.Now().Add(time.Hour)))
	require.NoError(t, b.Block(ctx, "stale", time.Now().Add(-time.Second)))

	blocked, err := b.IsBlocked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = b.IsBlocked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, blocked)

	blocked, err = b.IsBlocked(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestAppErrorStatus(t *testing.T) {
	cases := map[ErrorKind]int{
		KindValidation:      http.StatusBadRequest,
		KindUnauthenticated: http.StatusUnauthorized,
		KindForbidden:       http.StatusForbidden,
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindInternal:        http.StatusInternalServerError,
	}
	for kind, code := range cases {
		err := &AppError{Kind: kind, Message: "x"}
		assert.Equal(t, code, err.StatusCode())
	}

	wrapped := ErrInternal("failed", errors.New("disk on fire"))
	assert.True(t, IsKind(wrapped, KindInternal))
	assert.False(t, IsKind(errors.New("plain"), KindInternal))
}

func performError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	HandleError(c, err)
	return w
}

func TestHandleError(t *testing.T) {
	w := performError(ErrNotFound("order %d not found", 3))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Status)
	assert.Equal(t, "order 3 not found", body.Message)

	w = performError(errors.New("sql: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestBindingError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	type payload struct {
		Email  string `json:"email" binding:"required,email"`
		Rating int    `json:"rating" binding:"gte=1,lte=5"`
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"email":"nope","rating":9}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var p payload
	err := BindingError(c.ShouldBindJSON(&p))
	assert.Equal(t, KindValidation, err.Kind)
	assert.Contains(t, err.Message, "Email must be a valid email")
	assert.Contains(t, err.Message, "Rating must be less than or equal to 5")

	assert.Equal(t, "invalid request body", BindingError(errors.New("EOF")).Message)
}
