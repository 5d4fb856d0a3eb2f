package affiliate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newRedirectServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/hop", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/hop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dp/B0EXAMPLE/?ref=share", http.StatusFound)
	})
	mux.HandleFunc("/dp/B0EXAMPLE/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestResolverFollowsRedirects(t *testing.T) {
	server := newRedirectServer(t)
	resolver := NewResolver(5*time.Second, setupTestAPI())

	resolved := resolver.Resolve(context.Background(), server.URL+"/short")

	assert.Equal(t, server.URL+"/dp/B0EXAMPLE/?ref=share", resolved)
}

func TestResolverReturnsFinalURLWithoutRedirect(t *testing.T) {
	server := newRedirectServer(t)
	resolver := NewResolver(5*time.Second, setupTestAPI())

	resolved := resolver.Resolve(context.Background(), server.URL+"/dp/B0EXAMPLE/")

	assert.Equal(t, server.URL+"/dp/B0EXAMPLE/", resolved)
}

func TestResolverStopsAfterMaxRedirects(t *testing.T) {
	server := newRedirectServer(t)
	resolver := NewResolver(5*time.Second, setupTestAPI())

	input := server.URL + "/loop"
	assert.Equal(t, input, resolver.Resolve(context.Background(), input))
}

func TestResolverKeepsInputOnTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	unreachable := server.URL + "/gone"
	server.Close()

	resolver := NewResolver(time.Second, setupTestAPI())

	assert.Equal(t, unreachable, resolver.Resolve(context.Background(), unreachable))
}

func TestResolverKeepsMalformedInput(t *testing.T) {
	resolver := NewResolver(0, setupTestAPI())

	assert.Equal(t, "not a url", resolver.Resolve(context.Background(), "not a url"))
}
