package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fetchDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func TestFetchRate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/rates", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("from"))
		assert.Equal(t, "CNY", r.URL.Query().Get("to"))
		assert.Equal(t, "2024-03-15", r.URL.Query().Get("date"))
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"from":"USD","to":"CNY","rate":"7.1023","timestamp":"2024-03-15T08:00:00Z"}`))
	}))
	defer server.Close()

	provider := NewHTTPRateProvider(server.URL+"/", WithAPIKey("secret"))
	quote, err := provider.FetchRate(context.Background(), "USD", "CNY", fetchDate)

	require.NoError(t, err)
	assert.Equal(t, "7.1023", quote.Rate.String())
	assert.Equal(t, time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), quote.Timestamp)
}

func TestFetchRate_NumericRateWithoutTimestamp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(`{"rate":0.91}`))
	}))
	defer server.Close()

	provider := NewHTTPRateProvider(server.URL)
	quote, err := provider.FetchRate(context.Background(), "USD", "EUR", fetchDate)

	require.NoError(t, err)
	assert.Equal(t, "0.91", quote.Rate.String())
	assert.False(t, quote.Timestamp.IsZero())
}

func TestFetchRate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{name: "server error", status: http.StatusBadGateway, payload: `{}`},
		{name: "malformed body", status: http.StatusOK, payload: `not json`},
		{name: "missing rate", status: http.StatusOK, payload: `{"from":"USD","to":"CNY"}`},
		{name: "non-positive rate", status: http.StatusOK, payload: `{"rate":"0"}`},
		{name: "wrong pair", status: http.StatusOK, payload: `{"from":"EUR","to":"CNY","rate":"7.8"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer server.Close()

			provider := NewHTTPRateProvider(server.URL)
			_, err := provider.FetchRate(context.Background(), "USD", "CNY", fetchDate)

			assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
		})
	}
}

func TestFetchRate_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	provider := NewHTTPRateProvider(server.URL, WithTimeout(5*time.Second))
	_, err := provider.FetchRate(ctx, "USD", "CNY", fetchDate)

	assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
