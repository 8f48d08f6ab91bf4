package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMMDBServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &hits
}

func TestEnsureDB_DownloadsMissing(t *testing.T) {
	srv, hits := newMMDBServer(t, http.StatusOK, "mmdb-bytes")
	path := filepath.Join(t.TempDir(), "country.mmdb")

	require.NoError(t, EnsureDB(context.Background(), path, srv.URL, 24*time.Hour))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mmdb-bytes", string(data))
	assert.Equal(t, int32(1), hits.Load())

	_, err = os.Stat(path + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnsureDB_FreshFileIsKept(t *testing.T) {
	srv, hits := newMMDBServer(t, http.StatusOK, "new")
	path := filepath.Join(t.TempDir(), "country.mmdb")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	require.NoError(t, EnsureDB(context.Background(), path, srv.URL, 24*time.Hour))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	assert.Equal(t, int32(0), hits.Load())
}

func TestEnsureDB_OutdatedFileIsReplaced(t *testing.T) {
	srv, _ := newMMDBServer(t, http.StatusOK, "new")
	path := filepath.Join(t.TempDir(), "country.mmdb")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(path, past, past))

	require.NoError(t, EnsureDB(context.Background(), path, srv.URL, 24*time.Hour))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestEnsureDB_BadStatusKeepsOldFile(t *testing.T) {
	srv, _ := newMMDBServer(t, http.StatusNotFound, "")
	path := filepath.Join(t.TempDir(), "country.mmdb")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(path, past, past))

	err := EnsureDB(context.Background(), path, srv.URL, 24*time.Hour)
	assert.ErrorContains(t, err, "unexpected status 404")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestOpen_InvalidDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mmdb")
	require.NoError(t, os.WriteFile(path, []byte("not a maxmind db"), 0600))

	_, err := Open(path)
	assert.Error(t, err)
}
