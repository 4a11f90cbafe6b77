package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizedClientSetsHeaders(t *testing.T) {
	var gotAuth, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	client := NewAuthorizedClient(time.Second, "key-123")
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer key-123", gotAuth)
	assert.Equal(t, defaultUserAgent, gotUA)
	assert.Empty(t, req.Header.Get("Authorization"), "original request must stay untouched")
}

func TestAuthorizedClientWithoutKey(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	t.Cleanup(server.Close)

	resp, err := NewAuthorizedClient(time.Second, "").Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, gotAuth)
}

func TestNewHTTPClientTimeout(t *testing.T) {
	client := NewHTTPClient(3 * time.Second)
	assert.Equal(t, 3*time.Second, client.Timeout)
	assert.NotNil(t, client.Transport)
}

func TestAuthorizedClientWrapsBaseClient(t *testing.T) {
	client := NewAuthorizedClient(2*time.Second, "key")
	assert.Equal(t, 2*time.Second, client.Timeout)

	auth, ok := client.Transport.(*authTransport)
	require.True(t, ok)
	base, ok := auth.base.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 100, base.MaxIdleConns)
}
