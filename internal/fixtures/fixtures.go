// Package fixtures loads catalog seed data from YAML files
package fixtures

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// File is the root of a fixtures document
type File struct {
	Subjects []Subject `yaml:"subjects"`
}

// Subject is a subject entry of a fixtures document
type Subject struct {
	Title string `yaml:"title"`
	Slug  string `yaml:"slug"`
}

// SubjectCreator is implemented by the subject service
type SubjectCreator interface {
	CreateSubject(ctx context.Context, request *models.CreateSubjectRequest) (int, error)
}

// Load reads and parses a fixtures file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fixtures document. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &file, nil
}

// SeedResult counts what a seed run did
type SeedResult struct {
	Created int
	Existed int
}

// SeedSubjects creates every subject of the file. Subjects whose slug
// already exists are left untouched, so seeding can be repeated.
func SeedSubjects(ctx context.Context, creator SubjectCreator, file *File, logger *zap.Logger) (SeedResult, error) {
	var result SeedResult

	for _, s := range file.Subjects {
		id, err := creator.CreateSubject(ctx, &models.CreateSubjectRequest{Title: s.Title, Slug: s.Slug})
		if errors.Is(err, models.ErrConflict) {
			result.Existed++
			logger.Debug("subject already exists", zap.String("slug", s.Slug))
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to seed subject %q: %w", s.Slug, err)
		}

		result.Created++
		logger.Info("subject created", zap.String("slug", s.Slug), zap.Int("id", id))
	}

	return result, nil
}
