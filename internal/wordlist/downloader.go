// Package wordlist builds the dictionary from the OpenTaal word list and a word
// frequency list.
package wordlist

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-resty/resty/v2"

	"github.com/at-ishikawa/chat2dutch/internal/flatfile"
)

// Downloader keeps downloaded lists in a directory and reuses them unless asked to refresh.
type Downloader struct {
	client    *resty.Client
	directory string
}

func NewDownloader(directory string) *Downloader {
	return &Downloader{
		client:    resty.New(),
		directory: directory,
	}
}

// Fetch returns the path of the local copy of url, downloading it when needed.
func (d *Downloader) Fetch(ctx context.Context, url, fileName string, refresh bool) (string, error) {
	path := filepath.Join(d.directory, fileName)
	if !refresh {
		exists, err := flatfile.Exists(path)
		if err != nil {
			return "", fmt.Errorf("flatfile.Exists > %w", err)
		}
		if exists {
			slog.Default().Debug("using cached word list", "path", path)
			return path, nil
		}
	}

	res, err := d.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("client.R.Get(%s) > %w", url, err)
	}
	if res.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("status code: %d, url: %s", res.StatusCode(), url)
	}

	body := res.Body()
	if err := flatfile.Write(path, func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(body))
		return err
	}); err != nil {
		return "", fmt.Errorf("flatfile.Write > %w", err)
	}
	slog.Default().Info("downloaded word list", "url", url, "path", path, "bytes", len(body))
	return path, nil
}
