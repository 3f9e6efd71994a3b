package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/Ash-the-k/uhi-hackathon/internal/api/http"
	"github.com/Ash-the-k/uhi-hackathon/internal/auth"
	"github.com/Ash-the-k/uhi-hackathon/internal/domain"
	"github.com/Ash-the-k/uhi-hackathon/internal/observability"
	apperrors "github.com/Ash-the-k/uhi-hackathon/pkg/util"
)

type fakeUserRepo struct {
	users map[string]*domain.User
	err   error
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if f.err != nil {
		return f.err
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newTestApp(t *testing.T, repo *fakeUserRepo) (*fiber.App, *auth.TokenManager) {
	t.Helper()

	tm := auth.NewTokenManager("test-secret", 60)
	mw := auth.NewMiddleware(tm, repo, nil, zap.NewNop())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)

	echoIdentity := func(c *fiber.Ctx) error {
		identity, _ := auth.IdentityFromContext(c)
		return c.JSON(identity)
	}
	app.Get("/doctor-only", mw.Handle, auth.RequireRole(domain.RoleDoctor), echoIdentity)
	app.Get("/patient-only", mw.Handle, auth.RequireRole(domain.RolePatient), echoIdentity)
	return app, tm
}

func doRequest(t *testing.T, app *fiber.App, path, authorization string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func TestMissingAndMalformedHeaders(t *testing.T) {
	app, _ := newTestApp(t, &fakeUserRepo{users: map[string]*domain.User{}})

	for _, tc := range []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc"},
		{"one part", "Bearer"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doRequest(t, app, "/doctor-only", tc.header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, apperrors.CodeMissingToken, errorCode(body))
		})
	}
}

func TestBearerSchemeIsCaseInsensitive(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*domain.User{
		"user-1": {ID: "user-1", Role: domain.RoleDoctor},
	}}
	app, tm := newTestApp(t, repo)

	token, _, err := tm.Issue(repo.users["user-1"])
	require.NoError(t, err)

	status, _ := doRequest(t, app, "/doctor-only", "bearer "+token)
	assert.Equal(t, http.StatusOK, status)
}

func TestInvalidTokenDistinctFromMissing(t *testing.T) {
	app, _ := newTestApp(t, &fakeUserRepo{users: map[string]*domain.User{}})

	status, body := doRequest(t, app, "/doctor-only", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeInvalidToken, errorCode(body))

	otherIssuer := auth.NewTokenManager("other-secret", 60)
	token, _, err := otherIssuer.Issue(&domain.User{ID: "user-1", Role: domain.RoleDoctor})
	require.NoError(t, err)

	status, body = doRequest(t, app, "/doctor-only", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeInvalidToken, errorCode(body))
}

func TestRoleGateAllowAndDeny(t *testing.T) {
	doctorID := "doctor-9"
	repo := &fakeUserRepo{users: map[string]*domain.User{
		"user-1": {ID: "user-1", Email: "doc@x.com", Role: domain.RoleDoctor, DoctorID: &doctorID},
	}}
	app, tm := newTestApp(t, repo)

	token, _, err := tm.Issue(repo.users["user-1"])
	require.NoError(t, err)

	status, body := doRequest(t, app, "/doctor-only", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "doctor-9", body["DoctorID"])

	status, body = doRequest(t, app, "/patient-only", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeRoleNotAllowed, errorCode(body))

	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "doctor", details["role"])
	assert.Equal(t, []any{"patient"}, details["allowed"])
}

func TestNoRoleIsForbidden(t *testing.T) {
	// Token without a role, record absent from the store: the gate must
	// reject with the no-role reason rather than role-not-allowed.
	repo := &fakeUserRepo{users: map[string]*domain.User{}}
	app, tm := newTestApp(t, repo)

	token, _, err := tm.Issue(&domain.User{ID: "user-2"})
	require.NoError(t, err)

	status, body := doRequest(t, app, "/doctor-only", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeNoRole, errorCode(body))
}

func TestEnrichmentFillsRoleFromStore(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*domain.User{
		"user-3": {ID: "user-3", Role: domain.Role("DOCTOR"), Name: "Dr. Store"},
	}}
	app, tm := newTestApp(t, repo)

	token, _, err := tm.Issue(&domain.User{ID: "user-3"})
	require.NoError(t, err)

	status, body := doRequest(t, app, "/doctor-only", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "doctor", body["Role"])
	assert.Equal(t, "Dr. Store", body["Name"])
}

func TestStoreFailureDegradesToTokenClaims(t *testing.T) {
	repo := &fakeUserRepo{err: errors.New("store unavailable")}
	app, tm := newTestApp(t, repo)

	token, _, err := tm.Issue(&domain.User{ID: "user-4", Role: domain.RoleDoctor})
	require.NoError(t, err)

	status, _ := doRequest(t, app, "/doctor-only", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
}

func TestGateWithoutMiddlewareIsUnauthorized(t *testing.T) {
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Get("/bare", auth.RequireRole(domain.RoleDoctor), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	status, _ := doRequest(t, app, "/bare", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
