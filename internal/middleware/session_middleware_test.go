package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcruz/enrollsys/internal/app/models"
	"github.com/mcruz/enrollsys/internal/pkg/apperrors"
	"github.com/mcruz/enrollsys/internal/pkg/auth"
)

type fakeProfileStore struct {
	roles map[uuid.UUID]models.Role
	err   error
}

func (f *fakeProfileStore) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	role, ok := f.roles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	return &models.Profile{ID: id, Email: "user@example.com", Role: role}, nil
}

type middlewareFixture struct {
	router   *gin.Engine
	sessions *auth.SessionService
	profiles *fakeProfileStore
}

func newTestRouter(t *testing.T) *middlewareFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := auth.NewSessionService(auth.SessionConfig{
		SecretKey:   "test-secret",
		SessionExp:  time.Hour,
		TokenIssuer: "test",
	})
	profiles := &fakeProfileStore{roles: map[uuid.UUID]models.Role{}}
	m := NewSessionMiddleware(sessions, profiles)

	router := gin.New()
	router.Use(m.Resolve())

	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	router.GET("/admin/*page", m.RequirePageRole(models.RoleAdmin), ok)
	router.GET("/officer/*page", m.RequirePageRole(models.RoleOfficer, models.RoleAdmin), ok)
	router.GET("/faculty/*page", m.RequirePageRole(models.RoleFaculty, models.RoleAdmin), ok)
	router.GET("/student/*page", m.RequirePageRole(), ok)
	router.GET("/login", m.RedirectIfAuthenticated(), ok)
	router.GET("/api/protected", m.RequireAPIAuth(), ok)
	router.GET("/api/admin-only", m.RequireAPIRole(models.RoleAdmin), ok)

	return &middlewareFixture{router: router, sessions: sessions, profiles: profiles}
}

// signIn seeds a profile with the given role and returns a session cookie
// for it. An empty role leaves the account without a profile row.
func (f *middlewareFixture) signIn(t *testing.T, role models.Role) *http.Cookie {
	t.Helper()
	id := uuid.New()
	if role != "" {
		f.profiles.roles[id] = role
	}
	token, _, err := f.sessions.Generate(id.String(), "user@example.com", string(role))
	require.NoError(t, err)
	return &http.Cookie{Name: SessionCookieName, Value: token}
}

func (f *middlewareFixture) request(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestPageAccessTable(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		role         models.Role
		wantStatus   int
		wantLocation string
	}{
		{"anonymous admin area", "/admin/dashboard", "", http.StatusSeeOther, "/login"},
		{"anonymous faculty area", "/faculty/grading", "", http.StatusSeeOther, "/login"},
		{"admin enters admin area", "/admin/dashboard", models.RoleAdmin, http.StatusOK, ""},
		{"officer denied admin area", "/admin/dashboard", models.RoleOfficer, http.StatusSeeOther, "/officer"},
		{"officer enters officer area", "/officer/candidates", models.RoleOfficer, http.StatusOK, ""},
		{"admin enters officer area", "/officer/candidates", models.RoleAdmin, http.StatusOK, ""},
		{"student denied officer area", "/officer/candidates", models.RoleStudent, http.StatusSeeOther, "/student"},
		{"faculty enters faculty area", "/faculty/grading", models.RoleFaculty, http.StatusOK, ""},
		{"student denied faculty area", "/faculty/grading", models.RoleStudent, http.StatusSeeOther, "/student"},
		{"any role enters student area", "/student/profile", models.RoleFaculty, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestRouter(t)
			var cookie *http.Cookie
			if tt.role != "" {
				cookie = f.signIn(t, tt.role)
			}
			rec := f.request(tt.path, cookie)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
		})
	}
}

func TestRoleComesFromProfileRowNotToken(t *testing.T) {
	f := newTestRouter(t)

	// The token was minted while the user was an admin; the profile row has
	// since been demoted to officer. The demotion must bite on the very next
	// request.
	id := uuid.New()
	f.profiles.roles[id] = models.RoleOfficer
	token, _, err := f.sessions.Generate(id.String(), "user@example.com", string(models.RoleAdmin))
	require.NoError(t, err)
	cookie := &http.Cookie{Name: SessionCookieName, Value: token}

	rec := f.request("/admin/dashboard", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/officer", rec.Header().Get("Location"))

	rec = f.request("/officer/candidates", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeletedProfileFallsBackToStudent(t *testing.T) {
	f := newTestRouter(t)

	// Admin token whose profile row has been deleted: the session survives
	// but only with student access.
	id := uuid.New()
	token, _, err := f.sessions.Generate(id.String(), "user@example.com", string(models.RoleAdmin))
	require.NoError(t, err)
	cookie := &http.Cookie{Name: SessionCookieName, Value: token}

	rec := f.request("/admin/dashboard", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/student", rec.Header().Get("Location"))

	rec = f.request("/student/profile", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfileLookupFailureDropsSession(t *testing.T) {
	f := newTestRouter(t)
	cookie := f.signIn(t, models.RoleAdmin)
	f.profiles.err = errors.New("connection refused")

	rec := f.request("/api/protected", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginPageRedirectsAuthenticated(t *testing.T) {
	f := newTestRouter(t)

	rec := f.request("/login", f.signIn(t, models.RoleOfficer))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/officer", rec.Header().Get("Location"))

	rec = f.request("/login", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIAuthGuards(t *testing.T) {
	f := newTestRouter(t)

	rec := f.request("/api/protected", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.request("/api/protected", f.signIn(t, models.RoleStudent))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.request("/api/admin-only", f.signIn(t, models.RoleOfficer))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.request("/api/admin-only", f.signIn(t, models.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResolveIgnoresTamperedCookie(t *testing.T) {
	f := newTestRouter(t)

	rec := f.request("/api/protected", &http.Cookie{Name: SessionCookieName, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
