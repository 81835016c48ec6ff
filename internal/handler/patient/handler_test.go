package patient

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

	tenantHandler "github.com/medregistry/registry-api/internal/handler/tenant"
	"github.com/medregistry/registry-api/internal/middleware"
	"github.com/medregistry/registry-api/internal/registry"
	"github.com/medregistry/registry-api/internal/repository/memory"
	"github.com/medregistry/registry-api/internal/router"
	eventService "github.com/medregistry/registry-api/internal/service/event"
	patientService "github.com/medregistry/registry-api/internal/service/patient"
	tenantService "github.com/medregistry/registry-api/internal/service/tenant"
	"github.com/medregistry/registry-api/pkg/logger"
	"github.com/medregistry/registry-api/pkg/metrics"
)

const (
	owner   = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	staffer = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	subject = "0x1111111111111111111111111111111111111111"
	zero    = "0x0000000000000000000000000000000000000000"
)

func setupEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	reg := registry.New()
	events := eventService.NewService(memory.NewOutboxRepository())
	m := metrics.NewUnregistered("test")
	identity := middleware.NewIdentityMiddleware(middleware.IdentityConfig{})

	r := router.New(router.Config{Mode: gin.TestMode}, log.Zerolog(), identity,
		tenantHandler.NewHandler(tenantService.NewService(reg, events, m, log)),
		NewHandler(patientService.NewService(reg, events, m, log)),
	)
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

func seedClinic(t *testing.T, e *gin.Engine) {
	t.Helper()
	w := do(t, e, http.MethodPut, "/api/v1/tenants/h1", owner,
		gin.H{"name": "General", "location": "Springfield"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(t, e, http.MethodPut, "/api/v1/tenants/h1/staff/"+staffer, owner,
		gin.H{"role": "Staff"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCreatePatient(t *testing.T) {
	e := setupEngine(t)
	seedClinic(t, e)

	w := do(t, e, http.MethodPost, "/api/v1/tenants/h1/patients", owner, gin.H{
		"principal": subject,
		"name":      "Pat",
		"dob":       19900101,
		"gender":    "F",
		"allergies": []string{"latex"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, e, http.MethodGet, "/api/v1/tenants/h1/patients/"+subject, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Name      string   `json:"name"`
			Allergies []string `json:"allergies"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Pat", resp.Data.Name)
	assert.Equal(t, []string{"latex"}, resp.Data.Allergies)
}

func TestCreatePatientValidation(t *testing.T) {
	e := setupEngine(t)
	seedClinic(t, e)

	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{"missing name", gin.H{"principal": subject, "dob": 1}, http.StatusBadRequest},
		{"malformed principal", gin.H{"principal": "xyz", "name": "Pat", "dob": 1}, http.StatusBadRequest},
		{"zero principal", gin.H{"principal": zero, "name": "Pat", "dob": 1}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, e, http.MethodPost, "/api/v1/tenants/h1/patients", owner, tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCreatePatientAuthorization(t *testing.T) {
	e := setupEngine(t)
	seedClinic(t, e)

	body := gin.H{"principal": subject, "name": "Pat", "dob": 19900101}

	// Staff is an administrative role with no clinical write access.
	w := do(t, e, http.MethodPost, "/api/v1/tenants/h1/patients", staffer, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, e, http.MethodPut, "/api/v1/tenants/h1/staff/"+staffer, owner, gin.H{"role": "Nurse"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, e, http.MethodPost, "/api/v1/tenants/h1/patients", staffer, body)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestEmergencyContacts(t *testing.T) {
	e := setupEngine(t)
	seedClinic(t, e)
	do(t, e, http.MethodPost, "/api/v1/tenants/h1/patients", owner,
		gin.H{"principal": subject, "name": "Pat", "dob": 19900101})

	w := do(t, e, http.MethodPut, "/api/v1/tenants/h1/patients/"+subject+"/emergency-contacts",
		owner, gin.H{"relation": "spouse", "contact": "555-0100"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, e, http.MethodGet, "/api/v1/tenants/h1/patients/"+subject, owner, nil)
	var resp struct {
		Data struct {
			EmergencyContacts map[string]string `json:"emergency_contacts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "555-0100", resp.Data.EmergencyContacts["spouse"])
}

func TestDeletePatient(t *testing.T) {
	e := setupEngine(t)
	seedClinic(t, e)
	do(t, e, http.MethodPost, "/api/v1/tenants/h1/patients", owner,
		gin.H{"principal": subject, "name": "Pat", "dob": 19900101})

	w := do(t, e, http.MethodDelete, "/api/v1/tenants/h1/patients/"+subject, staffer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, e, http.MethodDelete, "/api/v1/tenants/h1/patients/"+subject, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, e, http.MethodGet, "/api/v1/tenants/h1/patients/"+subject, owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
