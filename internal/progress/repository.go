package progress

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/at-ishikawa/chat2dutch/internal/flatfile"
)

type Repository interface {
	// Load returns ErrNoProfile when nothing was saved yet.
	Load(ctx context.Context) (Profile, error)
	Save(ctx context.Context, profile Profile) error
}

// FileRepository stores the profile as one JSON record, or as YAML when the file name ends
// with .yml or .yaml.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(r.path))
	return ext == ".yml" || ext == ".yaml"
}

func (r *FileRepository) Load(ctx context.Context) (Profile, error) {
	var profile Profile
	var err error
	if r.isYAML() {
		profile, err = flatfile.ReadYAML[Profile](r.path)
	} else {
		profile, err = flatfile.ReadJSON[Profile](r.path)
	}
	if errors.Is(err, os.ErrNotExist) {
		return Profile{}, ErrNoProfile
	}
	if err != nil {
		return Profile{}, fmt.Errorf("flatfile.Read(%s) > %w", r.path, err)
	}
	if profile.Milestones == nil {
		profile.Milestones = []Milestone{}
	}
	return profile, nil
}

func (r *FileRepository) Save(ctx context.Context, profile Profile) error {
	if profile.Milestones == nil {
		profile.Milestones = []Milestone{}
	}

	var err error
	if r.isYAML() {
		err = flatfile.WriteYAML(r.path, profile)
	} else {
		err = flatfile.WriteJSON(r.path, profile)
	}
	if err != nil {
		return fmt.Errorf("flatfile.Write(%s) > %w", r.path, err)
	}
	return nil
}
