package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_CreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		var req struct {
			UserID      string `json:"userId"`
			AmountCents int64  `json:"amountCents"`
			Currency    string `json:"currency"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "user-1", req.UserID)
		assert.Equal(t, int64(597), req.AmountCents)

		json.NewEncoder(w).Encode(map[string]string{"id": "pi_1", "clientSecret": "cs_secret"})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "sk_test_123", nil)
	intent, err := client.CreateIntent(context.Background(), "user-1", 597)
	require.NoError(t, err)
	assert.Equal(t, "pi_1", intent.ID)
	assert.Equal(t, "cs_secret", intent.ClientSecret)
	assert.Equal(t, int64(597), intent.AmountCents)
}

func TestHTTPClient_CreateIntent_ProcessorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "bad-key", nil)
	_, err := client.CreateIntent(context.Background(), "user-1", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestHTTPClient_CreateIntent_EmptySecret(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "pi_1"})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "sk", nil)
	_, err := client.CreateIntent(context.Background(), "user-1", 100)
	require.Error(t, err)
}
