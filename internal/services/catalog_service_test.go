package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_GetSubjects(t *testing.T) {
	env := newTestEnv()
	programming := env.store.addSubject("Programming", "programming")
	env.store.addSubject("Mathematics", "mathematics")
	env.store.addCourse(1, programming.ID, "go")

	subjects, err := env.catalog.GetSubjects(context.Background())

	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, "mathematics", subjects[0].Slug)
	assert.Equal(t, 0, subjects[0].TotalCourses)
	assert.Equal(t, 1, subjects[1].TotalCourses)
	assert.Equal(t, 1, env.cache.subjectLoads)
}

func TestCatalogService_GetSubjects_Empty(t *testing.T) {
	env := newTestEnv()

	subjects, err := env.catalog.GetSubjects(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, subjects)
	assert.Empty(t, subjects)
}

func TestCatalogService_GetCourses(t *testing.T) {
	env := newTestEnv()
	programming := env.store.addSubject("Programming", "programming")
	physics := env.store.addSubject("Physics", "physics")
	env.store.addCourse(1, programming.ID, "go")
	env.store.addCourse(1, physics.ID, "optics")
	env.store.addCourse(2, programming.ID, "rust")

	tests := []struct {
		name          string
		subject       string
		expectedSlugs []string
		expectedErr   error
	}{
		{
			name:          "all subjects newest first",
			expectedSlugs: []string{"rust", "optics", "go"},
		},
		{
			name:          "one subject",
			subject:       "programming",
			expectedSlugs: []string{"rust", "go"},
		},
		{
			name:        "unknown subject",
			subject:     "chemistry",
			expectedErr: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses, err := env.catalog.GetCourses(context.Background(), tt.subject)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Zero(t, env.cache.courseLoads[tt.subject])
				return
			}
			require.NoError(t, err)

			slugs := make([]string, len(courses))
			for i, c := range courses {
				slugs[i] = c.Slug
			}
			assert.Equal(t, tt.expectedSlugs, slugs)
		})
	}
}

func TestCatalogService_GetCourseDetail(t *testing.T) {
	env := newTestEnv()
	course := env.store.addCourse(1, 0, "go")
	env.store.addModule(course.ID, 1)
	env.store.addModule(course.ID, 0)

	detail, err := env.catalog.GetCourseDetail(context.Background(), "go")
	require.NoError(t, err)
	require.Len(t, detail.Modules, 2)
	assert.Equal(t, 0, detail.Modules[0].Position)

	_, err = env.catalog.GetCourseDetail(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCatalogService_Enroll(t *testing.T) {
	env := newTestEnv()
	course := env.store.addCourse(1, 0, "go")

	require.NoError(t, env.catalog.Enroll(context.Background(), 7, course.ID))
	require.NoError(t, env.catalog.Enroll(context.Background(), 7, course.ID))
	assert.Len(t, env.store.enrollments, 1)

	assert.ErrorIs(t, env.catalog.Enroll(context.Background(), 7, 999), models.ErrNotFound)

	courses, err := env.catalog.GetEnrolledCourses(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, course.ID, courses[0].ID)

	none, err := env.catalog.GetEnrolledCourses(context.Background(), 8)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCatalogService_GetStudentCourse(t *testing.T) {
	env := newTestEnv()
	course := env.store.addCourse(1, 0, "go")
	env.store.addModule(course.ID, 0)
	env.store.enroll(course.ID, 7)

	detail, err := env.catalog.GetStudentCourse(context.Background(), 7, course.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Modules, 1)

	_, err = env.catalog.GetStudentCourse(context.Background(), 8, course.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = env.catalog.GetStudentCourse(context.Background(), 7, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)

	env.store.err = errors.New("database error")
	_, err = env.catalog.GetStudentCourse(context.Background(), 7, course.ID)
	assert.EqualError(t, err, "database error")
}

func TestCatalogService_GetStudentModuleContents(t *testing.T) {
	env := newTestEnv()
	course := env.store.addCourse(1, 0, "go")
	module := env.store.addModule(course.ID, 0)
	text := env.store.addItem(&models.Text{ItemBase: models.ItemBase{Title: "Read me"}, Content: "..."})
	env.store.addContent(module.ID, models.ItemKindText, text.Base().ID, 0)
	env.store.enroll(course.ID, 7)

	got, contents, err := env.catalog.GetStudentModuleContents(context.Background(), 7, module.ID)
	require.NoError(t, err)
	assert.Equal(t, module.ID, got.ID)
	require.Len(t, contents, 1)
	assert.Equal(t, "Read me", contents[0].Item.Base().Title)

	_, _, err = env.catalog.GetStudentModuleContents(context.Background(), 8, module.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, _, err = env.catalog.GetStudentModuleContents(context.Background(), 7, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
