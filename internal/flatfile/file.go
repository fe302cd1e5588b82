// Package flatfile reads and writes the flat files that back the learner's state.
package flatfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Exists reports whether path exists.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("os.Stat(%s) > %w", path, err)
}

// Write replaces the contents of path with whatever encode writes.
// The data goes to a temporary file in the same directory first and is renamed over path
// only after it was flushed and closed, so readers never see a partially written file.
func Write(path string, encode func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp(%s) > %w", dir, err)
	}
	tmpPath := file.Name()
	defer func() {
		if err != nil {
			_ = file.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := encode(file); err != nil {
		return fmt.Errorf("encode(%s) > %w", path, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("file.Sync(%s) > %w", tmpPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("file.Close(%s) > %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("os.Rename(%s, %s) > %w", tmpPath, path, err)
	}
	return nil
}

// Read opens path and hands it to decode, closing the file on every exit path.
func Read(path string, decode func(r io.Reader) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := decode(file); err != nil {
		return fmt.Errorf("decode(%s) > %w", path, err)
	}
	return nil
}

func ReadYAML[T any](path string) (T, error) {
	var result T
	err := Read(path, func(r io.Reader) error {
		return yaml.NewDecoder(r).Decode(&result)
	})
	return result, err
}

func WriteYAML[T any](path string, data T) error {
	return Write(path, func(w io.Writer) error {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return err
		}
		return encoder.Close()
	})
}

func ReadJSON[T any](path string) (T, error) {
	var result T
	err := Read(path, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&result)
	})
	return result, err
}

// WriteJSON writes data as two-space indented JSON.
func WriteJSON[T any](path string, data T) error {
	return Write(path, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		return encoder.Encode(data)
	})
}
