package kaggle

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnsafePath is returned for archive entries that would extract outside
// the target directory.
var ErrUnsafePath = errors.New("unsafe archive path")

// DefaultBaseURL is the public Kaggle REST API root.
const DefaultBaseURL = "https://www.kaggle.com/api/v1"

// Client downloads public datasets through the Kaggle REST API.
type Client struct {
	username   string
	key        string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Kaggle API client authenticating with creds against
// the API rooted at baseURL.
func NewClient(creds Credentials, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		username: creds.Username,
		key:      creds.Key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Download fetches the dataset archive ("owner/slug") and unpacks it into
// dir, creating dir when needed. It returns the extracted file paths.
// Existing files are overwritten.
func (c *Client) Download(ctx context.Context, dataset, dir string) ([]string, error) {
	owner, slug, err := splitDataset(dataset)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	u := fmt.Sprintf("%s/datasets/download/%s/%s", c.baseURL, url.PathEscape(owner), url.PathEscape(slug))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.key)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", dataset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("kaggle API error: status %d: %s", resp.StatusCode, body)
	}

	archive, err := os.CreateTemp(dir, "kaggle-*.zip")
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	defer os.Remove(archive.Name())

	size, err := io.Copy(archive, resp.Body)
	if cerr := archive.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("save archive: %w", err)
	}
	c.logger.Info("dataset downloaded", "dataset", dataset, "bytes", size, "duration", time.Since(start))

	files, err := unzip(archive.Name(), dir)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", dataset, err)
	}
	c.logger.Info("dataset extracted", "dir", dir, "files", len(files))
	return files, nil
}

func splitDataset(dataset string) (owner, slug string, err error) {
	owner, slug, ok := strings.Cut(dataset, "/")
	if !ok || owner == "" || slug == "" || strings.Contains(slug, "/") {
		return "", "", fmt.Errorf("dataset %q: want owner/slug", dataset)
	}
	return owner, slug, nil
}

func unzip(archive, dir string) ([]string, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var files []string
	for _, f := range zr.File {
		if !filepath.IsLocal(f.Name) {
			return files, fmt.Errorf("%w: %q", ErrUnsafePath, f.Name)
		}
		target := filepath.Join(dir, f.Name)
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return files, err
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return files, err
		}
		files = append(files, target)
	}
	return files, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	return dst.Close()
}
