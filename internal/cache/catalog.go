package cache

import (
	"context"

	"github.com/kydzoster/e-learning-dj-linux/internal/models"
)

// Catalog caches the public subject and course listings
type Catalog struct {
	cache *Cache
}

// NewCatalog creates a catalog cache on top of c
func NewCatalog(c *Cache) *Catalog {
	return &Catalog{cache: c}
}

// Subjects returns the cached subject listing
func (c *Catalog) Subjects(ctx context.Context, load func(context.Context) ([]models.SubjectListItem, error)) ([]models.SubjectListItem, error) {
	return GetOrLoad(ctx, c.cache, KeySubjects, load)
}

// Courses returns the cached course listing, of one subject when subjectSlug is set
func (c *Catalog) Courses(ctx context.Context, subjectSlug string, load func(context.Context) ([]models.CourseListItem, error)) ([]models.CourseListItem, error) {
	key := KeyAllCourses
	if subjectSlug != "" {
		key = SubjectCoursesKey(subjectSlug)
	}
	return GetOrLoad(ctx, c.cache, key, load)
}

// InvalidateCourses drops listings that include courses of the subject.
// Subject listings are dropped too since they carry course counts.
func (c *Catalog) InvalidateCourses(ctx context.Context, subjectSlug string) error {
	keys := []string{KeySubjects, KeyAllCourses}
	if subjectSlug != "" {
		keys = append(keys, SubjectCoursesKey(subjectSlug))
	}
	return c.cache.Invalidate(ctx, keys...)
}

// InvalidateSubjects drops the subject listing
func (c *Catalog) InvalidateSubjects(ctx context.Context) error {
	return c.cache.Invalidate(ctx, KeySubjects)
}
