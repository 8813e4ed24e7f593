package services

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/kydzoster/e-learning-dj-linux/internal/metrics"
	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// fakeStore is an in-memory course tree shared by the mock repositories
type fakeStore struct {
	mu          sync.Mutex
	nextID      int
	subjects    map[int]*models.Subject
	courses     map[int]*models.Course
	modules     map[int]*models.Module
	contents    map[int]*models.Content
	items       map[models.ItemKind]map[int]models.Item
	enrollments map[[2]int]bool

	// err is returned by every repository call when set
	err error
	// itemCreateErr and contentCreateErr fail only the matching inserts
	itemCreateErr    error
	contentCreateErr error
	// beforeContentDelete runs under the lock before a content row is deleted
	beforeContentDelete func(id int)
}

func newFakeStore() *fakeStore {
	items := make(map[models.ItemKind]map[int]models.Item, len(models.ItemKinds))
	for _, kind := range models.ItemKinds {
		items[kind] = map[int]models.Item{}
	}
	return &fakeStore{
		subjects:    map[int]*models.Subject{},
		courses:     map[int]*models.Course{},
		modules:     map[int]*models.Module{},
		contents:    map[int]*models.Content{},
		items:       items,
		enrollments: map[[2]int]bool{},
	}
}

func (s *fakeStore) id() int {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addSubject(title, slug string) *models.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()
	subject := &models.Subject{ID: s.id(), Title: title, Slug: slug}
	s.subjects[subject.ID] = subject
	return subject
}

func (s *fakeStore) addCourse(ownerID, subjectID int, slug string) *models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	course := &models.Course{ID: s.id(), OwnerID: ownerID, SubjectID: subjectID, Title: slug, Slug: slug, Overview: "overview"}
	s.courses[course.ID] = course
	return course
}

func (s *fakeStore) addModule(courseID, position int) *models.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	module := &models.Module{ID: s.id(), CourseID: courseID, Title: fmt.Sprintf("Module %d", position), Position: position}
	s.modules[module.ID] = module
	return module
}

func (s *fakeStore) addItem(item models.Item) models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.Base().ID = s.id()
	s.items[item.Kind()][item.Base().ID] = item
	return item
}

func (s *fakeStore) addContent(moduleID int, kind models.ItemKind, itemID, position int) *models.Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	content := &models.Content{ID: s.id(), ModuleID: moduleID, Kind: kind, ItemID: itemID, Position: position}
	s.contents[content.ID] = content
	return content
}

func (s *fakeStore) enroll(courseID, studentID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enrollments[[2]int{courseID, studentID}] = true
}

func (s *fakeStore) ownsModule(moduleID, ownerID int) bool {
	module, ok := s.modules[moduleID]
	if !ok {
		return false
	}
	course, ok := s.courses[module.CourseID]
	return ok && course.OwnerID == ownerID
}

func (s *fakeStore) listItem(c *models.Course) models.CourseListItem {
	total := 0
	for _, m := range s.modules {
		if m.CourseID == c.ID {
			total++
		}
	}
	return models.CourseListItem{ID: c.ID, SubjectID: c.SubjectID, Title: c.Title, Slug: c.Slug, Overview: c.Overview, TotalModules: total}
}

func (s *fakeStore) courseList(keep func(*models.Course) bool) []models.CourseListItem {
	var result []models.CourseListItem
	for _, c := range s.courses {
		if keep(c) {
			result = append(result, s.listItem(c))
		}
	}
	slices.SortFunc(result, func(a, b models.CourseListItem) int { return cmp.Compare(b.ID, a.ID) })
	return result
}

func (s *fakeStore) modulesOf(courseID int) []models.Module {
	var result []models.Module
	for _, m := range s.modules {
		if m.CourseID == courseID {
			result = append(result, *m)
		}
	}
	slices.SortFunc(result, func(a, b models.Module) int {
		return cmp.Or(cmp.Compare(a.Position, b.Position), cmp.Compare(a.ID, b.ID))
	})
	return result
}

func (s *fakeStore) contentsOf(moduleID int) []models.Content {
	var result []models.Content
	for _, c := range s.contents {
		if c.ModuleID == moduleID {
			result = append(result, *c)
		}
	}
	slices.SortFunc(result, func(a, b models.Content) int {
		return cmp.Or(cmp.Compare(a.Position, b.Position), cmp.Compare(a.ID, b.ID))
	})
	return result
}

func lazy[T any](load func() ([]T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		rows, err := load()
		if err != nil {
			var zero T
			yield(zero, err)
			return
		}
		for _, row := range rows {
			if !yield(row, nil) {
				return
			}
		}
	}
}

// mockSubjectRepository is a mock implementation of SubjectRepository
type mockSubjectRepository struct{ s *fakeStore }

func (m *mockSubjectRepository) GetAll(ctx context.Context) ([]models.SubjectListItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}
	var result []models.SubjectListItem
	for _, subject := range m.s.subjects {
		total := 0
		for _, c := range m.s.courses {
			if c.SubjectID == subject.ID {
				total++
			}
		}
		result = append(result, models.SubjectListItem{ID: subject.ID, Title: subject.Title, Slug: subject.Slug, TotalCourses: total})
	}
	slices.SortFunc(result, func(a, b models.SubjectListItem) int { return cmp.Compare(a.Title, b.Title) })
	return result, nil
}

func (m *mockSubjectRepository) GetByID(ctx context.Context, id int) (*models.Subject, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}
	subject, ok := m.s.subjects[id]
	if !ok {
		return nil, fmt.Errorf("subject %w", models.ErrNotFound)
	}
	copied := *subject
	return &copied, nil
}

func (m *mockSubjectRepository) GetBySlug(ctx context.Context, slug string) (*models.Subject, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}
	for _, subject := range m.s.subjects {
		if subject.Slug == slug {
			copied := *subject
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("subject %w", models.ErrNotFound)
}

func (m *mockSubjectRepository) ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return false, m.s.err
	}
	for _, subject := range m.s.subjects {
		if subject.Slug == slug && subject.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return m.s.err
	}
	subject.ID = m.s.id()
	copied := *subject
	m.s.subjects[subject.ID] = &copied
	return nil
}

func (m *mockSubjectRepository) Update(ctx context.Context, id int, req *models.UpdateSubjectRequest) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return m.s.err
	}
	subject, ok := m.s.subjects[id]
	if !ok {
		return fmt.Errorf("subject %w", models.ErrNotFound)
	}
	if req.Title != "" {
		subject.Title = req.Title
	}
	if req.Slug != "" {
		subject.Slug = req.Slug
	}
	return nil
}

// mockCourseRepository is a mock implementation of CourseRepository
type mockCourseRepository struct{ s *fakeStore }

func (m *mockCourseRepository) GetList(ctx context.Context, subjectSlug string) ([]models.CourseListItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}
	return m.s.courseList(func(c *models.Course) bool {
		subject := m.s.subjects[c.SubjectID]
		return subjectSlug == "" || (subject != nil && subject.Slug == subjectSlug)
	}), nil
}

func (m *mockCourseRepository) GetByOwner(ctx context.Context, ownerID int) ([]models.CourseListItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}
	return m.s.courseList(func(c *models.Course) bool { return c.OwnerID == ownerID }), nil
}

func (m *mockCourseRepository) GetByStudent(ctx context.Context, studentID int) ([]models.CourseListItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}
	return m.s.courseList(func(c *models.Course) bool { return m.s.enrollments[[2]int{c.ID, studentID}] }), nil
}

func (m *mockCourseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}
	course, ok := m.s.courses[id]
	if !ok {
		return nil, fmt.Errorf("course %w", models.ErrNotFound)
	}
	copied := *course
	return &copied, nil
}

func (m *mockCourseRepository) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}
	for _, course := range m.s.courses {
		if course.Slug == slug {
			copied := *course
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("course %w", models.ErrNotFound)
}

func (m *mockCourseRepository) ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return false, m.s.err
	}
	for _, course := range m.s.courses {
		if course.Slug == slug && course.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return m.s.err
	}
	course.ID = m.s.id()
	copied := *course
	m.s.courses[course.ID] = &copied
	return nil
}

func (m *mockCourseRepository) Update(ctx context.Context, id int, req *models.UpdateCourseRequest) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return m.s.err
	}
	course, ok := m.s.courses[id]
	if !ok {
		return fmt.Errorf("course %w", models.ErrNotFound)
	}
	if req.SubjectID != nil {
		course.SubjectID = *req.SubjectID
	}
	if req.Title != "" {
		course.Title = req.Title
	}
	if req.Slug != "" {
		course.Slug = req.Slug
	}
	if req.Overview != "" {
		course.Overview = req.Overview
	}
	return nil
}

func (m *mockCourseRepository) Delete(ctx context.Context, id int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return m.s.err
	}
	if _, ok := m.s.courses[id]; !ok {
		return fmt.Errorf("course %w", models.ErrNotFound)
	}
	delete(m.s.courses, id)
	for moduleID, module := range m.s.modules {
		if module.CourseID == id {
			delete(m.s.modules, moduleID)
			for contentID, content := range m.s.contents {
				if content.ModuleID == moduleID {
					delete(m.s.contents, contentID)
				}
			}
		}
	}
	return nil
}

func (m *mockCourseRepository) CheckOwnership(ctx context.Context, id, ownerID int) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return false, m.s.err
	}
	course, ok := m.s.courses[id]
	return ok && course.OwnerID == ownerID, nil
}

// mockModuleRepository is a mock implementation of ModuleRepository
type mockModuleRepository struct{ s *fakeStore }

func (m *mockModuleRepository) IterByCourse(ctx context.Context, courseID int) iter.Seq2[models.Module, error] {
	return lazy(func() ([]models.Module, error) { return m.GetByCourse(ctx, courseID) })
}

func (m *mockModuleRepository) GetByCourse(ctx context.Context, courseID int) ([]models.Module, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}
	return m.s.modulesOf(courseID), nil
}

func (m *mockModuleRepository) GetByID(ctx context.Context, id int) (*models.Module, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}
	module, ok := m.s.modules[id]
	if !ok {
		return nil, fmt.Errorf("module %w", models.ErrNotFound)
	}
	copied := *module
	return &copied, nil
}

func (m *mockModuleRepository) Create(ctx context.Context, module *models.Module, position *int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return m.s.err
	}
	if position != nil {
		module.Position = *position
	} else {
		module.Position = 0
		for _, sibling := range m.s.modulesOf(module.CourseID) {
			module.Position = max(module.Position, sibling.Position+1)
		}
	}
	module.ID = m.s.id()
	copied := *module
	m.s.modules[module.ID] = &copied
	return nil
}

func (m *mockModuleRepository) Update(ctx context.Context, id int, req *models.UpdateModuleRequest) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return m.s.err
	}
	module, ok := m.s.modules[id]
	if !ok {
		return fmt.Errorf("module %w", models.ErrNotFound)
	}
	if req.Title == "" && req.Description == nil {
		return fmt.Errorf("%w: no fields to update", models.ErrValidation)
	}
	if req.Title != "" {
		module.Title = req.Title
	}
	if req.Description != nil {
		module.Description = *req.Description
	}
	return nil
}

func (m *mockModuleRepository) Delete(ctx context.Context, id int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return m.s.err
	}
	if _, ok := m.s.modules[id]; !ok {
		return fmt.Errorf("module %w", models.ErrNotFound)
	}
	delete(m.s.modules, id)
	for contentID, content := range m.s.contents {
		if content.ModuleID == id {
			delete(m.s.contents, contentID)
		}
	}
	return nil
}

func (m *mockModuleRepository) UpdatePositionOwned(ctx context.Context, id, position, ownerID int) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return false, m.s.err
	}
	if !m.s.ownsModule(id, ownerID) {
		return false, nil
	}
	m.s.modules[id].Position = position
	return true, nil
}

// mockContentRepository is a mock implementation of ContentRepository
type mockContentRepository struct{ s *fakeStore }

func (m *mockContentRepository) IterByModule(ctx context.Context, moduleID int) iter.Seq2[models.Content, error] {
	return lazy(func() ([]models.Content, error) { return m.GetByModule(ctx, moduleID) })
}

func (m *mockContentRepository) GetByModule(ctx context.Context, moduleID int) ([]models.Content, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}
	return m.s.contentsOf(moduleID), nil
}

func (m *mockContentRepository) GetByCourse(ctx context.Context, courseID int) ([]models.Content, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}
	var result []models.Content
	for _, module := range m.s.modulesOf(courseID) {
		result = append(result, m.s.contentsOf(module.ID)...)
	}
	return result, nil
}

func (m *mockContentRepository) GetByID(ctx context.Context, id int) (*models.Content, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}
	content, ok := m.s.contents[id]
	if !ok {
		return nil, fmt.Errorf("content %w", models.ErrNotFound)
	}
	copied := *content
	return &copied, nil
}

func (m *mockContentRepository) Create(ctx context.Context, content *models.Content, position *int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return m.s.err
	}
	if m.s.contentCreateErr != nil {
		return m.s.contentCreateErr
	}
	if position != nil {
		content.Position = *position
	} else {
		content.Position = 0
		for _, sibling := range m.s.contentsOf(content.ModuleID) {
			content.Position = max(content.Position, sibling.Position+1)
		}
	}
	content.ID = m.s.id()
	copied := *content
	m.s.contents[content.ID] = &copied
	return nil
}

func (m *mockContentRepository) Delete(ctx context.Context, id int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return m.s.err
	}
	if m.s.beforeContentDelete != nil {
		m.s.beforeContentDelete(id)
	}
	if _, ok := m.s.contents[id]; !ok {
		return fmt.Errorf("content %w", models.ErrNotFound)
	}
	delete(m.s.contents, id)
	return nil
}

func (m *mockContentRepository) UpdatePositionOwned(ctx context.Context, id, position, ownerID int) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return false, m.s.err
	}
	content, ok := m.s.contents[id]
	if !ok || !m.s.ownsModule(content.ModuleID, ownerID) {
		return false, nil
	}
	content.Position = position
	return true, nil
}

func (m *mockContentRepository) CheckOwnership(ctx context.Context, id, ownerID int) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return false, m.s.err
	}
	content, ok := m.s.contents[id]
	return ok && m.s.ownsModule(content.ModuleID, ownerID), nil
}

func (m *mockContentRepository) GetDangling(ctx context.Context) ([]models.Content, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}
	var result []models.Content
	for _, content := range m.s.contents {
		if _, ok := m.s.items[content.Kind][content.ItemID]; !ok {
			result = append(result, *content)
		}
	}
	slices.SortFunc(result, func(a, b models.Content) int { return cmp.Compare(a.ID, b.ID) })
	return result, nil
}

// mockItemRepository is a mock implementation of ItemRepository
type mockItemRepository struct{ s *fakeStore }

func (m *mockItemRepository) Create(ctx context.Context, item models.Item) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return m.s.err
	}
	if m.s.itemCreateErr != nil {
		return m.s.itemCreateErr
	}
	item.Base().ID = m.s.id()
	m.s.items[item.Kind()][item.Base().ID] = item
	return nil
}

func (m *mockItemRepository) GetByRef(ctx context.Context, kind models.ItemKind, id int) (models.Item, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}
	table, ok := m.s.items[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidKind, kind)
	}
	item, ok := table[id]
	if !ok {
		return nil, fmt.Errorf("%s item %w", kind, models.ErrNotFound)
	}
	return item, nil
}

func (m *mockItemRepository) Update(ctx context.Context, item models.Item) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return m.s.err
	}
	m.s.items[item.Kind()][item.Base().ID] = item
	return nil
}

func (m *mockItemRepository) Delete(ctx context.Context, kind models.ItemKind, id int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return m.s.err
	}
	table, ok := m.s.items[kind]
	if !ok {
		return fmt.Errorf("%w: %q", models.ErrInvalidKind, kind)
	}
	if _, ok := table[id]; !ok {
		return fmt.Errorf("%s item %w", kind, models.ErrNotFound)
	}
	delete(table, id)
	return nil
}

// mockEnrollmentRepository is a mock implementation of EnrollmentRepository
type mockEnrollmentRepository struct{ s *fakeStore }

func (m *mockEnrollmentRepository) IsEnrolled(ctx context.Context, courseID, studentID int) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return false, m.s.err
	}
	return m.s.enrollments[[2]int{courseID, studentID}], nil
}

func (m *mockEnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return m.s.err
	}
	m.s.enrollments[[2]int{enrollment.CourseID, enrollment.StudentID}] = true
	return nil
}

// mockMediaCleaner records scheduled file removals
type mockMediaCleaner struct {
	mu    sync.Mutex
	files []string
	err   error
}

func (m *mockMediaCleaner) EnqueueMediaDelete(ctx context.Context, kind models.ItemKind, fileRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.files = append(m.files, string(kind)+":"+fileRef)
	return nil
}

// mockCatalogCache calls through to load and records invalidations
type mockCatalogCache struct {
	mu                  sync.Mutex
	subjectLoads        int
	courseLoads         map[string]int
	invalidatedCourses  []string
	invalidatedSubjects int
	err                 error
}

func newMockCatalogCache() *mockCatalogCache {
	return &mockCatalogCache{courseLoads: map[string]int{}}
}

func (m *mockCatalogCache) Subjects(ctx context.Context, load func(context.Context) ([]models.SubjectListItem, error)) ([]models.SubjectListItem, error) {
	m.mu.Lock()
	m.subjectLoads++
	m.mu.Unlock()
	return load(ctx)
}

func (m *mockCatalogCache) Courses(ctx context.Context, subjectSlug string, load func(context.Context) ([]models.CourseListItem, error)) ([]models.CourseListItem, error) {
	m.mu.Lock()
	m.courseLoads[subjectSlug]++
	m.mu.Unlock()
	return load(ctx)
}

func (m *mockCatalogCache) InvalidateCourses(ctx context.Context, subjectSlug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidatedCourses = append(m.invalidatedCourses, subjectSlug)
	return m.err
}

func (m *mockCatalogCache) InvalidateSubjects(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidatedSubjects++
	return m.err
}

// testEnv wires every service over one fake store
type testEnv struct {
	store    *fakeStore
	media    *mockMediaCleaner
	cache    *mockCatalogCache
	metrics  *metrics.Collector
	refs     *itemRefService
	contents *contentService
	courses  *courseService
	catalog  *catalogService
	subjects *subjectService
	reorder  *reorderService
	sweep    *sweepService
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	media := &mockMediaCleaner{}
	cache := newMockCatalogCache()
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	logger := zap.NewNop()

	subjectRepo := &mockSubjectRepository{s: store}
	courseRepo := &mockCourseRepository{s: store}
	moduleRepo := &mockModuleRepository{s: store}
	contentRepo := &mockContentRepository{s: store}
	itemRepo := &mockItemRepository{s: store}
	enrollmentRepo := &mockEnrollmentRepository{s: store}

	refs := NewItemRefService(itemRepo, contentRepo, media, m, logger)
	contents := NewContentService(moduleRepo, courseRepo, contentRepo, itemRepo, refs, logger)

	return &testEnv{
		store:    store,
		media:    media,
		cache:    cache,
		metrics:  m,
		refs:     refs,
		contents: contents,
		courses:  NewCourseService(courseRepo, moduleRepo, contentRepo, subjectRepo, refs, cache, logger),
		catalog:  NewCatalogService(subjectRepo, courseRepo, moduleRepo, enrollmentRepo, contents, cache, logger),
		subjects: NewSubjectService(subjectRepo, cache, logger),
		reorder:  NewReorderService(moduleRepo, contentRepo, m, logger),
		sweep:    NewSweepService(contentRepo, m, logger),
	}
}

func itoa(n int) string {
	return fmt.Sprint(n)
}
