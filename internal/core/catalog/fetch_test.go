package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/primary", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`[{"from":"primary"}]`))
	})
	mux.HandleFunc("/mirror", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not even json"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	f := NewFetcher(srv.URL+"/primary", srv.URL+"/mirror", time.Second)

	body, err := f.Fetch(context.Background(), SourcePrimary)
	require.NoError(t, err)
	assert.Equal(t, `[{"from":"primary"}]`, string(body))

	// body is returned verbatim, unparsed
	body, err = f.Fetch(context.Background(), SourceMirror)
	require.NoError(t, err)
	assert.Equal(t, "not even json", string(body))
}

func TestFetcher_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(srv.URL, srv.URL, time.Second)

	_, err := f.Fetch(context.Background(), SourcePrimary)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "503")
}

func TestFetcher_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(srv.URL, srv.URL, time.Second).Fetch(ctx, SourceMirror)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource("mirror")
	require.NoError(t, err)
	assert.Equal(t, SourceMirror, src)

	_, err = ParseSource("bundled")
	assert.Error(t, err)
}
