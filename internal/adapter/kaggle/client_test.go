package kaggle

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUser    = "climate-analyst"
	testKey     = "0123456789abcdef"
	testDataset = "goyaladi/climate-insights-dataset"
	testCSV     = "Date,Temperature,CO2 Emissions,Sea Level Rise,Precipitation,Humidity,Wind Speed\n2001-01-01,1,2,3,4,5,6\n"
)

func testClient(baseURL string) *Client {
	return &Client{
		username:   testUser,
		key:        testKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func zipOf(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func archiveServer(t *testing.T, archive []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, key, ok := r.BasicAuth()
		if !ok || user != testUser || key != testKey {
			http.Error(w, `{"code":401,"message":"Unauthenticated"}`, http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "/datasets/download/goyaladi/climate-insights-dataset", r.URL.Path)
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(archive)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Download_Success(t *testing.T) {
	srv := archiveServer(t, zipOf(t, map[string]string{
		"climate_change_data.csv": testCSV,
		"notes/README.txt":        "readme",
	}))
	dir := filepath.Join(t.TempDir(), "data")

	files, err := testClient(srv.URL).Download(context.Background(), testDataset, dir)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "climate_change_data.csv"),
		filepath.Join(dir, "notes", "README.txt"),
	}, files)

	got, err := os.ReadFile(filepath.Join(dir, "climate_change_data.csv"))
	require.NoError(t, err)
	assert.Equal(t, testCSV, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".zip", "temporary archive is removed")
	}
}

func TestClient_Download_Overwrites(t *testing.T) {
	srv := archiveServer(t, zipOf(t, map[string]string{"climate_change_data.csv": testCSV}))
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "climate_change_data.csv"), []byte("stale"), 0o600))

	_, err := testClient(srv.URL).Download(context.Background(), testDataset, dir)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "climate_change_data.csv"))
	require.NoError(t, err)
	assert.Equal(t, testCSV, string(got))
}

func TestClient_Download_Unauthorized(t *testing.T) {
	srv := archiveServer(t, nil)
	c := testClient(srv.URL)
	c.key = "wrong"

	_, err := c.Download(context.Background(), testDataset, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestClient_Download_InvalidDataset(t *testing.T) {
	c := testClient("http://127.0.0.1:0")
	for _, ds := range []string{"", "no-slash", "/slug", "owner/", "a/b/c"} {
		_, err := c.Download(context.Background(), ds, t.TempDir())
		assert.Error(t, err, ds)
	}
}

func TestClient_Download_RejectsPathTraversal(t *testing.T) {
	srv := archiveServer(t, zipOf(t, map[string]string{"../escape.csv": testCSV}))
	root := t.TempDir()
	dir := filepath.Join(root, "data")

	_, err := testClient(srv.URL).Download(context.Background(), testDataset, dir)
	require.ErrorIs(t, err, ErrUnsafePath)

	_, statErr := os.Stat(filepath.Join(root, "escape.csv"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestClient_Download_NotAZip(t *testing.T) {
	srv := archiveServer(t, []byte("<html>maintenance</html>"))

	_, err := testClient(srv.URL).Download(context.Background(), testDataset, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract")
}

func TestClient_Download_ContextCanceled(t *testing.T) {
	srv := archiveServer(t, zipOf(t, map[string]string{"climate_change_data.csv": testCSV}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).Download(ctx, testDataset, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}
