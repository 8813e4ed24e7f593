package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	authMiddleware "github.com/kydzoster/e-learning-dj-linux/internal/auth/middleware"
	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockCatalogService is a mock implementation of CatalogService
type mockCatalogService struct {
	subjects      []models.SubjectListItem
	courses       []models.CourseListItem
	course        *models.CourseDetailResponse
	err           error
	lastSubject   string
	lastSlugAsked string
}

func (m *mockCatalogService) GetSubjects(ctx context.Context) ([]models.SubjectListItem, error) {
	return m.subjects, m.err
}

func (m *mockCatalogService) GetCourses(ctx context.Context, subjectSlug string) ([]models.CourseListItem, error) {
	m.lastSubject = subjectSlug
	return m.courses, m.err
}

func (m *mockCatalogService) GetCourseDetail(ctx context.Context, slug string) (*models.CourseDetailResponse, error) {
	m.lastSlugAsked = slug
	return m.course, m.err
}

// mockCourseService is a mock implementation of CourseService
type mockCourseService struct {
	createdID   int
	lastCreate  *models.CreateCourseRequest
	lastOwnerID int
	lastID      int
	module      *models.Module
	children    []models.OrderedChild
	err         error
}

func (m *mockCourseService) GetOwnedCourses(ctx context.Context, ownerID int) ([]models.CourseListItem, error) {
	m.lastOwnerID = ownerID
	return []models.CourseListItem{}, m.err
}

func (m *mockCourseService) CreateCourse(ctx context.Context, request *models.CreateCourseRequest) (int, error) {
	m.lastCreate = request
	return m.createdID, m.err
}

func (m *mockCourseService) UpdateCourse(ctx context.Context, ownerID, courseID int, request *models.UpdateCourseRequest) error {
	m.lastOwnerID, m.lastID = ownerID, courseID
	return m.err
}

func (m *mockCourseService) DeleteCourse(ctx context.Context, ownerID, courseID int) error {
	m.lastOwnerID, m.lastID = ownerID, courseID
	return m.err
}

func (m *mockCourseService) GetCourseModules(ctx context.Context, ownerID, courseID int) (*models.CourseDetailResponse, error) {
	m.lastOwnerID, m.lastID = ownerID, courseID
	return &models.CourseDetailResponse{Course: models.Course{ID: courseID}}, m.err
}

func (m *mockCourseService) CreateModule(ctx context.Context, ownerID, courseID int, request *models.CreateModuleRequest) (*models.Module, error) {
	m.lastOwnerID, m.lastID = ownerID, courseID
	return m.module, m.err
}

func (m *mockCourseService) UpdateModule(ctx context.Context, ownerID, moduleID int, request *models.UpdateModuleRequest) error {
	m.lastOwnerID, m.lastID = ownerID, moduleID
	return m.err
}

func (m *mockCourseService) DeleteModule(ctx context.Context, ownerID, moduleID int) error {
	m.lastOwnerID, m.lastID = ownerID, moduleID
	return m.err
}

func (m *mockCourseService) ListOwnedChildren(ctx context.Context, ownerID int, parentKind models.ParentKind, parentID int) (iter.Seq2[models.OrderedChild, error], error) {
	m.lastOwnerID, m.lastID = ownerID, parentID
	if m.err != nil {
		return nil, m.err
	}
	return func(yield func(models.OrderedChild, error) bool) {
		for _, child := range m.children {
			if !yield(child, nil) {
				return
			}
		}
	}, nil
}

// mockContentService is a mock implementation of ContentService
type mockContentService struct {
	createdID int
	lastKind  string
	item      models.Item
	err       error
}

func (m *mockContentService) CreateItemAndBind(ctx context.Context, ownerID, moduleID int, kind string, request *models.ItemRequest) (int, error) {
	m.lastKind = kind
	return m.createdID, m.err
}

func (m *mockContentService) UpdateItem(ctx context.Context, ownerID, contentID int, request *models.ItemRequest) (models.Item, error) {
	return m.item, m.err
}

func (m *mockContentService) DeleteContent(ctx context.Context, ownerID, contentID int) error {
	return m.err
}

func (m *mockContentService) GetModuleContents(ctx context.Context, ownerID, moduleID int) (*models.Module, []models.ContentResponse, error) {
	return &models.Module{ID: moduleID}, []models.ContentResponse{}, m.err
}

// mockReorderService is a mock implementation of ReorderService
type mockReorderService struct {
	lastRequest *models.ReorderRequest
	result      models.ReorderResult
	err         error
}

func (m *mockReorderService) ReorderModules(ctx context.Context, ownerID int, request *models.ReorderRequest) (models.ReorderResult, error) {
	m.lastRequest = request
	return m.result, m.err
}

func (m *mockReorderService) ReorderContents(ctx context.Context, ownerID int, request *models.ReorderRequest) (models.ReorderResult, error) {
	m.lastRequest = request
	return m.result, m.err
}

// mockStudentService is a mock implementation of StudentService
type mockStudentService struct {
	enrolled []int
	err      error
}

func (m *mockStudentService) Enroll(ctx context.Context, studentID, courseID int) error {
	if m.err == nil {
		m.enrolled = append(m.enrolled, courseID)
	}
	return m.err
}

func (m *mockStudentService) GetEnrolledCourses(ctx context.Context, studentID int) ([]models.CourseListItem, error) {
	return []models.CourseListItem{}, m.err
}

func (m *mockStudentService) GetStudentCourse(ctx context.Context, studentID, courseID int) (*models.CourseDetailResponse, error) {
	return &models.CourseDetailResponse{Course: models.Course{ID: courseID}}, m.err
}

func (m *mockStudentService) GetStudentModuleContents(ctx context.Context, studentID, moduleID int) (*models.Module, []models.ContentResponse, error) {
	return &models.Module{ID: moduleID}, []models.ContentResponse{}, m.err
}

// mockSubjectService is a mock implementation of SubjectService
type mockSubjectService struct {
	createdID int
	err       error
}

func (m *mockSubjectService) CreateSubject(ctx context.Context, request *models.CreateSubjectRequest) (int, error) {
	return m.createdID, m.err
}

func (m *mockSubjectService) UpdateSubject(ctx context.Context, id int, request *models.UpdateSubjectRequest) error {
	return m.err
}

// mockSweepScheduler is a mock implementation of SweepScheduler
type mockSweepScheduler struct {
	calls int
	err   error
}

func (m *mockSweepScheduler) EnqueueContentSweep(ctx context.Context) error {
	m.calls++
	return m.err
}

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// serve runs a request through a router with the handler mounted on /api/v1.
// A positive userID is injected into the request context.
func serve(h routeRegistrar, method, path, body string, userID int) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		h.RegisterRoutes(r)
	})

	req := httptest.NewRequest(method, "/api/v1"+path, bytes.NewBufferString(body))
	if userID > 0 {
		req = req.WithContext(authMiddleware.WithUser(req.Context(), userID, models.RoleInstructor))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", models.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", errors.Join(errors.New("course"), models.ErrNotFound), http.StatusNotFound},
		{"invalid kind", models.ErrInvalidKind, http.StatusBadRequest},
		{"validation", models.ErrValidation, http.StatusBadRequest},
		{"forbidden", models.ErrForbidden, http.StatusForbidden},
		{"conflict", models.ErrConflict, http.StatusConflict},
		{"unexpected", errors.New("database error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusFor(tt.err))
		})
	}
}

func TestCatalogHandler(t *testing.T) {
	logger := zap.NewNop()

	t.Run("subjects", func(t *testing.T) {
		svc := &mockCatalogService{subjects: []models.SubjectListItem{{ID: 1, Title: "Mathematics", Slug: "mathematics", TotalCourses: 2}}}
		w := serve(NewCatalogHandler(svc, logger), http.MethodGet, "/subjects", "", 0)

		assert.Equal(t, http.StatusOK, w.Code)
		var subjects []models.SubjectListItem
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subjects))
		assert.Len(t, subjects, 1)
		assert.Equal(t, 2, subjects[0].TotalCourses)
	})

	t.Run("courses by path subject", func(t *testing.T) {
		svc := &mockCatalogService{courses: []models.CourseListItem{}}
		w := serve(NewCatalogHandler(svc, logger), http.MethodGet, "/courses/subject/physics", "", 0)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "physics", svc.lastSubject)
	})

	t.Run("courses by query subject", func(t *testing.T) {
		svc := &mockCatalogService{courses: []models.CourseListItem{}}
		w := serve(NewCatalogHandler(svc, logger), http.MethodGet, "/courses?subject=music", "", 0)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "music", svc.lastSubject)
	})

	t.Run("unknown course slug", func(t *testing.T) {
		svc := &mockCatalogService{err: models.ErrNotFound}
		w := serve(NewCatalogHandler(svc, logger), http.MethodGet, "/courses/missing", "", 0)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "missing", svc.lastSlugAsked)
	})

	t.Run("internal errors are hidden", func(t *testing.T) {
		svc := &mockCatalogService{err: errors.New("connection refused")}
		w := serve(NewCatalogHandler(svc, logger), http.MethodGet, "/subjects", "", 0)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal server error", decodeBody(t, w)["error"])
	})
}

func TestInstructorHandler_Courses(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		userID         int
		svcErr         error
		expectedStatus int
	}{
		{"list", http.MethodGet, "/instructor/courses", "", 7, nil, http.StatusOK},
		{"list without user", http.MethodGet, "/instructor/courses", "", 0, nil, http.StatusUnauthorized},
		{"create", http.MethodPost, "/instructor/courses", `{"subjectId":1,"title":"Go","slug":"go","overview":"o"}`, 7, nil, http.StatusCreated},
		{"create with invalid body", http.MethodPost, "/instructor/courses", `{`, 7, nil, http.StatusBadRequest},
		{"create with taken slug", http.MethodPost, "/instructor/courses", `{"subjectId":1,"title":"Go","slug":"go","overview":"o"}`, 7, models.ErrConflict, http.StatusConflict},
		{"update", http.MethodPatch, "/instructor/courses/3", `{"title":"New"}`, 7, nil, http.StatusNoContent},
		{"update with invalid id", http.MethodPatch, "/instructor/courses/abc", `{"title":"New"}`, 7, nil, http.StatusBadRequest},
		{"update of foreign course", http.MethodPatch, "/instructor/courses/3", `{"title":"New"}`, 7, models.ErrForbidden, http.StatusForbidden},
		{"delete", http.MethodDelete, "/instructor/courses/3", "", 7, nil, http.StatusNoContent},
		{"delete missing course", http.MethodDelete, "/instructor/courses/3", "", 7, models.ErrNotFound, http.StatusNotFound},
		{"modules", http.MethodGet, "/instructor/courses/3/modules", "", 7, nil, http.StatusOK},
		{"create module", http.MethodPost, "/instructor/courses/3/modules", `{"title":"Intro"}`, 7, nil, http.StatusCreated},
		{"update module", http.MethodPatch, "/instructor/modules/4", `{"title":"Intro"}`, 7, nil, http.StatusNoContent},
		{"delete module", http.MethodDelete, "/instructor/modules/4", "", 7, nil, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses := &mockCourseService{createdID: 11, module: &models.Module{ID: 4, CourseID: 3}, err: tt.svcErr}
			h := NewInstructorHandler(courses, &mockContentService{}, &mockReorderService{}, logger)

			w := serve(h, tt.method, tt.path, tt.body, tt.userID)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	t.Run("create sets the owner from the token", func(t *testing.T) {
		courses := &mockCourseService{createdID: 11}
		h := NewInstructorHandler(courses, &mockContentService{}, &mockReorderService{}, logger)

		w := serve(h, http.MethodPost, "/instructor/courses", `{"subjectId":1,"title":"Go","slug":"go","overview":"o","ownerId":99}`, 7)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 7, courses.lastCreate.OwnerID)
		assert.Equal(t, float64(11), decodeBody(t, w)["id"])
	})
}

func TestInstructorHandler_Contents(t *testing.T) {
	logger := zap.NewNop()

	t.Run("create passes the kind through", func(t *testing.T) {
		contents := &mockContentService{createdID: 5}
		h := NewInstructorHandler(&mockCourseService{}, contents, &mockReorderService{}, logger)

		w := serve(h, http.MethodPost, "/instructor/modules/4/contents/video", `{"title":"Talk","url":"https://example.com/v"}`, 7)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "video", contents.lastKind)
	})

	t.Run("unknown kind", func(t *testing.T) {
		contents := &mockContentService{err: models.ErrInvalidKind}
		h := NewInstructorHandler(&mockCourseService{}, contents, &mockReorderService{}, logger)

		w := serve(h, http.MethodPost, "/instructor/modules/4/contents/audio", `{"title":"x"}`, 7)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update returns the item", func(t *testing.T) {
		contents := &mockContentService{item: &models.Text{ItemBase: models.ItemBase{ID: 2, Title: "Notes"}, Content: "body"}}
		h := NewInstructorHandler(&mockCourseService{}, contents, &mockReorderService{}, logger)

		w := serve(h, http.MethodPatch, "/instructor/contents/9", `{"content":"body"}`, 7)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "body", decodeBody(t, w)["content"])
	})

	t.Run("delete foreign content", func(t *testing.T) {
		contents := &mockContentService{err: models.ErrForbidden}
		h := NewInstructorHandler(&mockCourseService{}, contents, &mockReorderService{}, logger)

		w := serve(h, http.MethodDelete, "/instructor/contents/9", "", 7)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("module contents", func(t *testing.T) {
		h := NewInstructorHandler(&mockCourseService{}, &mockContentService{}, &mockReorderService{}, logger)

		w := serve(h, http.MethodGet, "/instructor/modules/4/contents", "", 7)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Contains(t, body, "module")
		assert.Contains(t, body, "contents")
	})
}

func TestInstructorHandler_Reorder(t *testing.T) {
	logger := zap.NewNop()

	t.Run("acknowledges even when rows are skipped", func(t *testing.T) {
		reorder := &mockReorderService{result: models.ReorderResult{Applied: 1, Skipped: 1}}
		h := NewInstructorHandler(&mockCourseService{}, &mockContentService{}, reorder, logger)

		w := serve(h, http.MethodPost, "/instructor/modules/order", `{"1":5,"2":3}`, 7)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", decodeBody(t, w)["saved"])
		require.NotNil(t, reorder.lastRequest)
		assert.Equal(t, []models.PositionUpdate{{ID: 1, Position: 5}, {ID: 2, Position: 3}}, reorder.lastRequest.Updates)
	})

	t.Run("contents", func(t *testing.T) {
		reorder := &mockReorderService{}
		h := NewInstructorHandler(&mockCourseService{}, &mockContentService{}, reorder, logger)

		w := serve(h, http.MethodPost, "/instructor/contents/order", `{"8":0}`, 7)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `{"saved":"OK"}`, strings.TrimSpace(w.Body.String()))
	})

	t.Run("non-numeric id", func(t *testing.T) {
		reorder := &mockReorderService{}
		h := NewInstructorHandler(&mockCourseService{}, &mockContentService{}, reorder, logger)

		w := serve(h, http.MethodPost, "/instructor/modules/order", `{"abc":1}`, 7)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, reorder.lastRequest)
	})

	t.Run("position above column range", func(t *testing.T) {
		reorder := &mockReorderService{}
		h := NewInstructorHandler(&mockCourseService{}, &mockContentService{}, reorder, logger)

		w := serve(h, http.MethodPost, "/instructor/modules/order", `{"1":0,"2":4294967296}`, 7)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, reorder.lastRequest)
	})

	t.Run("database failure", func(t *testing.T) {
		reorder := &mockReorderService{err: errors.New("deadlock")}
		h := NewInstructorHandler(&mockCourseService{}, &mockContentService{}, reorder, logger)

		w := serve(h, http.MethodPost, "/instructor/modules/order", `{"1":0}`, 7)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestInstructorHandler_GetChildren(t *testing.T) {
	logger := zap.NewNop()

	t.Run("ordered children", func(t *testing.T) {
		courses := &mockCourseService{children: []models.OrderedChild{
			models.Module{ID: 3, Position: 0},
			models.Module{ID: 1, Position: 1},
		}}
		h := NewInstructorHandler(courses, &mockContentService{}, &mockReorderService{}, logger)

		w := serve(h, http.MethodGet, "/instructor/children/course/2", "", 7)

		require.Equal(t, http.StatusOK, w.Code)
		var children []ChildResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &children))
		assert.Equal(t, []ChildResponse{{ID: 3, Position: 0}, {ID: 1, Position: 1}}, children)
		assert.Equal(t, 7, courses.lastOwnerID)
		assert.Equal(t, 2, courses.lastID)
	})

	t.Run("foreign parent", func(t *testing.T) {
		courses := &mockCourseService{err: models.ErrForbidden}
		h := NewInstructorHandler(courses, &mockContentService{}, &mockReorderService{}, logger)

		w := serve(h, http.MethodGet, "/instructor/children/course/2", "", 7)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing parent", func(t *testing.T) {
		courses := &mockCourseService{err: models.ErrNotFound}
		h := NewInstructorHandler(courses, &mockContentService{}, &mockReorderService{}, logger)

		w := serve(h, http.MethodGet, "/instructor/children/module/2", "", 7)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStudentHandler(t *testing.T) {
	logger := zap.NewNop()

	t.Run("enroll", func(t *testing.T) {
		svc := &mockStudentService{}
		w := serve(NewStudentHandler(svc, logger), http.MethodPost, "/students/courses/3/enroll", "", 5)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []int{3}, svc.enrolled)
	})

	t.Run("not enrolled", func(t *testing.T) {
		svc := &mockStudentService{err: models.ErrForbidden}
		w := serve(NewStudentHandler(svc, logger), http.MethodGet, "/students/courses/3", "", 5)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("module contents", func(t *testing.T) {
		svc := &mockStudentService{}
		w := serve(NewStudentHandler(svc, logger), http.MethodGet, "/students/modules/4/contents", "", 5)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing user", func(t *testing.T) {
		svc := &mockStudentService{}
		w := serve(NewStudentHandler(svc, logger), http.MethodGet, "/students/courses", "", 0)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAdminHandler(t *testing.T) {
	logger := zap.NewNop()

	t.Run("create", func(t *testing.T) {
		w := serve(NewAdminHandler(&mockSubjectService{createdID: 4}, logger), http.MethodPost, "/admin/subjects", `{"title":"Music","slug":"music"}`, 1)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, float64(4), decodeBody(t, w)["id"])
	})

	t.Run("update with taken slug", func(t *testing.T) {
		w := serve(NewAdminHandler(&mockSubjectService{err: models.ErrConflict}, logger), http.MethodPatch, "/admin/subjects/4", `{"slug":"music"}`, 1)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("update with invalid id", func(t *testing.T) {
		w := serve(NewAdminHandler(&mockSubjectService{}, logger), http.MethodPatch, "/admin/subjects/0", `{"slug":"music"}`, 1)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid subject ID", decodeBody(t, w)["error"])
	})
}

func TestMaintenanceHandler(t *testing.T) {
	logger := zap.NewNop()

	t.Run("queued", func(t *testing.T) {
		scheduler := &mockSweepScheduler{}
		w := serve(NewMaintenanceHandler(scheduler, logger), http.MethodPost, "/maintenance/sweep", "", 0)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, 1, scheduler.calls)
	})

	t.Run("enqueue failure", func(t *testing.T) {
		scheduler := &mockSweepScheduler{err: errors.New("redis down")}
		w := serve(NewMaintenanceHandler(scheduler, logger), http.MethodPost, "/maintenance/sweep", "", 0)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
