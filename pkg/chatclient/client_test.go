package chatclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		status int
		kind   Kind
	}{
		{400, KindValidation},
		{401, KindAuthRequired},
		{403, KindAuthRequired},
		{404, KindNotFound},
		{429, KindConnectivity},
		{500, KindStorage},
		{503, KindStorage},
	}

	for _, tc := range cases {
		err := classifyStatus(tc.status, "x")
		assert.Equal(t, tc.kind, err.Kind, "status %d", tc.status)
	}
}

func TestErrorRetryable(t *testing.T) {
	assert.True(t, (&Error{Kind: KindConnectivity}).Retryable())
	assert.True(t, (&Error{Kind: KindStorage}).Retryable())
	assert.False(t, (&Error{Kind: KindValidation}).Retryable())
	assert.False(t, (&Error{Kind: KindAuthRequired}).Retryable())
	assert.False(t, (&Error{Kind: KindNotFound}).Retryable())
}

func TestClient_AuthRequiredSurfacesAsSuch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid or expired token"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "expired")
	_, err := client.FetchBoard(context.Background())

	assert.Equal(t, KindAuthRequired, KindOf(err))

	var ce *Error
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, "Invalid or expired token", ce.Message)
	assert.Equal(t, http.StatusUnauthorized, ce.Status)
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write(messagesResponse(nil))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok-123")
	_, err := client.FetchRoom(context.Background(), "S2")

	assert.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}
