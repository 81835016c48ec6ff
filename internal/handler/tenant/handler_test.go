package tenant

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medregistry/registry-api/internal/middleware"
	"github.com/medregistry/registry-api/internal/registry"
	"github.com/medregistry/registry-api/internal/repository/memory"
	"github.com/medregistry/registry-api/internal/router"
	eventService "github.com/medregistry/registry-api/internal/service/event"
	tenantService "github.com/medregistry/registry-api/internal/service/tenant"
	"github.com/medregistry/registry-api/pkg/logger"
	"github.com/medregistry/registry-api/pkg/metrics"
)

const (
	alice = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bob   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	carol = "0xcccccccccccccccccccccccccccccccccccccccc"
	zero  = "0x0000000000000000000000000000000000000000"
)

func setupEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	svc := tenantService.NewService(
		registry.New(),
		eventService.NewService(memory.NewOutboxRepository()),
		metrics.NewUnregistered("test"),
		log,
	)
	identity := middleware.NewIdentityMiddleware(middleware.IdentityConfig{})

	r := router.New(router.Config{Mode: gin.TestMode}, log.Zerolog(), identity, NewHandler(svc))
	r.Setup()
	return r.Engine()
}

func do(t *testing.T, e *gin.Engine, method, path, caller string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if caller != "" {
		req.Header.Set(middleware.HeaderXPrincipal, caller)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		Status string                 `json:"status"`
		Data   map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Status)
	return resp.Data
}

func TestUpsertTenant(t *testing.T) {
	e := setupEngine(t)

	w := do(t, e, http.MethodPut, "/api/v1/tenants/h1", alice,
		gin.H{"name": "General", "location": "Springfield"})
	require.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, alice, data["owner"])

	// Reusing the key overwrites the tenant and hands ownership to the
	// new caller.
	w = do(t, e, http.MethodPut, "/api/v1/tenants/h1", bob,
		gin.H{"name": "General II", "location": "Shelbyville"})
	require.Equal(t, http.StatusOK, w.Code)
	data = dataField(t, w)
	assert.Equal(t, bob, data["owner"])
	assert.Equal(t, "General II", data["name"])
}

func TestUpsertTenantValidation(t *testing.T) {
	e := setupEngine(t)

	w := do(t, e, http.MethodPut, "/api/v1/tenants/h1", alice, gin.H{"name": "General"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, e, http.MethodPut, "/api/v1/tenants/h1", "", gin.H{"name": "General", "location": "X"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetTenantNotFound(t *testing.T) {
	e := setupEngine(t)

	w := do(t, e, http.MethodGet, "/api/v1/tenants/nope", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaffRoleRoutes(t *testing.T) {
	e := setupEngine(t)
	do(t, e, http.MethodPut, "/api/v1/tenants/h1", alice,
		gin.H{"name": "General", "location": "Springfield"})

	w := do(t, e, http.MethodPut, "/api/v1/tenants/h1/staff/"+bob, alice, gin.H{"role": "Doctor"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, e, http.MethodGet, "/api/v1/tenants/h1/staff/"+bob, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Doctor", dataField(t, w)["role"])

	w = do(t, e, http.MethodDelete, "/api/v1/tenants/h1/staff/"+bob, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, e, http.MethodDelete, "/api/v1/tenants/h1/staff/"+bob, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaffRoleFailures(t *testing.T) {
	e := setupEngine(t)
	do(t, e, http.MethodPut, "/api/v1/tenants/h1", alice,
		gin.H{"name": "General", "location": "Springfield"})

	tests := []struct {
		name   string
		caller string
		target string
		role   string
		want   int
	}{
		{"non-owner", carol, bob, "Doctor", http.StatusForbidden},
		{"zero principal", alice, zero, "Doctor", http.StatusBadRequest},
		{"unknown role", alice, bob, "Janitor", http.StatusBadRequest},
		{"malformed principal", alice, "not-an-address", "Doctor", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, e, http.MethodPut, "/api/v1/tenants/h1/staff/"+tt.target,
				tt.caller, gin.H{"role": tt.role})
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := do(t, e, http.MethodPut, "/api/v1/tenants/missing/staff/"+bob, alice, gin.H{"role": "Doctor"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTenant(t *testing.T) {
	e := setupEngine(t)
	do(t, e, http.MethodPut, "/api/v1/tenants/h1", alice,
		gin.H{"name": "General", "location": "Springfield"})

	w := do(t, e, http.MethodDelete, "/api/v1/tenants/h1", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, e, http.MethodDelete, "/api/v1/tenants/h1", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, e, http.MethodGet, "/api/v1/tenants/h1", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
