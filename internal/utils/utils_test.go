package utils

import (
	"encoding/base64"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvitationToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateInvitationToken()
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		require.Len(t, raw, 32)

		require.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}

func TestExpiresAt(t *testing.T) {
	now := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"24h", now.Add(24 * time.Hour)},
		{"1h", now.Add(time.Hour)},
		{"7d", time.Date(2026, 2, 7, 10, 0, 0, 0, time.UTC)},
		{"30d", time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)},
		{"2w", time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)},
		{"1m", time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpiresAt(tt.in, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestExpiresAt_Invalid(t *testing.T) {
	for _, in := range []string{"", "7", "d", "7D", "7y", "-1d", "0d", "1.5h", " 7d", "7d "} {
		_, err := ExpiresAt(in, time.Now())
		assert.ErrorIs(t, err, ErrInvalidDuration, "input %q", in)
	}
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"", 1, 20, 0},
		{"?page=3&limit=10", 3, 10, 20},
		{"?page=0&limit=1000", 1, 20, 0},
		{"?page=abc&limit=-5", 1, 20, 0},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/standups"+tt.query, nil)

		params := GetPaginationParams(c)
		assert.Equal(t, tt.wantPage, params.Page, tt.query)
		assert.Equal(t, tt.wantLimit, params.Limit, tt.query)
		assert.Equal(t, tt.wantOffset, params.Offset, tt.query)
	}
}
