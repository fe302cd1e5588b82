// Package cache keeps word explanations on disk so a word is only explained once.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/at-ishikawa/chat2dutch/internal/flatfile"
	"github.com/at-ishikawa/chat2dutch/internal/inference"
)

// FileCache wraps a client and stores each explanation as <word>.json below rootDir.
// Word validation is not cached.
type FileCache struct {
	client  inference.Client
	rootDir string
}

func NewFileCache(client inference.Client, cacheDirectory string) *FileCache {
	return &FileCache{
		client:  client,
		rootDir: cacheDirectory,
	}
}

func (cache *FileCache) filePath(word string) string {
	return filepath.Join(cache.rootDir, url.PathEscape(strings.ToLower(word))+".json")
}

func (cache *FileCache) ExplainWord(ctx context.Context, params inference.ExplainWordRequest) (inference.ExplainWordResponse, error) {
	path := cache.filePath(params.Word)
	exists, err := flatfile.Exists(path)
	if err != nil {
		return inference.ExplainWordResponse{}, fmt.Errorf("flatfile.Exists > %w", err)
	}
	if exists {
		response, err := flatfile.ReadJSON[inference.ExplainWordResponse](path)
		if err == nil {
			// Entries are shared by every casing of the word.
			response.Word = params.Word
			return response, nil
		}
		slog.Default().Warn("ignoring unreadable cached explanation", "path", path, "error", err)
	}

	response, err := cache.client.ExplainWord(ctx, params)
	if err != nil {
		return inference.ExplainWordResponse{}, fmt.Errorf("client.ExplainWord > %w", err)
	}
	if err := flatfile.WriteJSON(path, response); err != nil {
		slog.Default().Warn("failed to cache the explanation", "word", params.Word, "error", err)
	}
	return response, nil
}

func (cache *FileCache) ValidateWord(ctx context.Context, params inference.ValidateWordRequest) (inference.ValidateWordResponse, error) {
	return cache.client.ValidateWord(ctx, params)
}
