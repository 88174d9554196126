package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prowl/internal/common"
	"prowl/internal/service"
)

func newTestNotifier(t *testing.T, handler http.HandlerFunc) *TelegramNotifier {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	n, err := NewTelegramNotifier("test-token", "12345", FormatOptions{IncludeKeywords: true})
	require.NoError(t, err)
	n.apiBase = server.URL
	n.retry = service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}

	return n
}

func TestNewTelegramNotifier_RequiresCredentials(t *testing.T) {
	_, err := NewTelegramNotifier("", "12345", FormatOptions{})
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	_, err = NewTelegramNotifier("token", "", FormatOptions{})
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestTelegramNotifier_Notify(t *testing.T) {
	var got sendMessageRequest

	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	err := n.Notify(context.Background(), testNotification())
	require.NoError(t, err)

	assert.Equal(t, "12345", got.ChatID)
	assert.Equal(t, "Markdown", got.ParseMode)
	assert.True(t, got.DisableLinkPreview)
	assert.Contains(t, got.Text, "🔔 *Found: Phone*")
	assert.Contains(t, got.Text, "🔑 *Keywords:* phone, iphone")
}

func TestTelegramNotifier_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	n := newTestNotifier(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	err := n.Notify(context.Background(), testNotification())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestTelegramNotifier_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32

	n := newTestNotifier(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	err := n.Notify(context.Background(), testNotification())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotifyFailed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTelegramNotifier_RateLimitRetried(t *testing.T) {
	var calls atomic.Int32

	n := newTestNotifier(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	err := n.Notify(context.Background(), testNotification())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTelegramNotifier_ExhaustedRetries(t *testing.T) {
	var calls atomic.Int32

	n := newTestNotifier(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	err := n.Notify(context.Background(), testNotification())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotifyFailed)
	assert.Equal(t, int32(3), calls.Load())
}
