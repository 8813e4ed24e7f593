package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectService_CreateSubject(t *testing.T) {
	tests := []struct {
		name        string
		req         *models.CreateSubjectRequest
		expectedErr error
	}{
		{
			name: "success",
			req:  &models.CreateSubjectRequest{Title: "Physics", Slug: "physics"},
		},
		{
			name:        "duplicate slug",
			req:         &models.CreateSubjectRequest{Title: "Maths", Slug: "mathematics"},
			expectedErr: models.ErrConflict,
		},
		{
			name:        "missing title",
			req:         &models.CreateSubjectRequest{Slug: "music"},
			expectedErr: models.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			env.store.addSubject("Mathematics", "mathematics")

			id, err := env.subjects.CreateSubject(context.Background(), tt.req)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Zero(t, env.cache.invalidatedSubjects)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "physics", env.store.subjects[id].Slug)
			assert.Equal(t, 1, env.cache.invalidatedSubjects)
		})
	}
}

func TestSubjectService_UpdateSubject(t *testing.T) {
	env := newTestEnv()
	maths := env.store.addSubject("Mathematics", "mathematics")
	env.store.addSubject("Physics", "physics")

	require.NoError(t, env.subjects.UpdateSubject(context.Background(), maths.ID, &models.UpdateSubjectRequest{Title: "Maths"}))
	assert.Equal(t, "Maths", env.store.subjects[maths.ID].Title)

	assert.ErrorIs(t, env.subjects.UpdateSubject(context.Background(), maths.ID, &models.UpdateSubjectRequest{Slug: "physics"}), models.ErrConflict)
	assert.ErrorIs(t, env.subjects.UpdateSubject(context.Background(), 999, &models.UpdateSubjectRequest{Title: "X"}), models.ErrNotFound)
	assert.ErrorIs(t, env.subjects.UpdateSubject(context.Background(), maths.ID, &models.UpdateSubjectRequest{}), models.ErrValidation)
}

func TestSubjectService_CacheFailureIsNotFatal(t *testing.T) {
	env := newTestEnv()
	env.cache.err = errors.New("redis down")

	_, err := env.subjects.CreateSubject(context.Background(), &models.CreateSubjectRequest{Title: "Art", Slug: "art"})

	assert.NoError(t, err)
}
