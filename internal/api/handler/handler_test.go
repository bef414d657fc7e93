package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"gis-erp/backend/internal/api/middleware"
	"gis-erp/backend/internal/dto"
	"gis-erp/backend/internal/service"
	"gis-erp/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult      *dto.TokenResponse
	loginErr         error
	refreshResult    *dto.TokenResponse
	refreshErr       error
	logoutErr        error
	getCurrentResult *dto.UserDetailResponse
	getCurrentErr    error
	changePassErr    error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string) error {
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserDetailResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock AvailabilityService ──

type mockAvailabilityService struct {
	setResult  *dto.SetUnavailabilityResponse
	setErr     error
	listResult []dto.UnavailabilityResponse
	listErr    error
	deleteErr  error
}

func (m *mockAvailabilityService) SetUnavailability(_ context.Context, _ *dto.SetUnavailabilityRequest, _ string) (*dto.SetUnavailabilityResponse, error) {
	return m.setResult, m.setErr
}
func (m *mockAvailabilityService) ListUnavailability(_ context.Context, _ string, _ *dto.UnavailabilityListRequest) ([]dto.UnavailabilityResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockAvailabilityService) DeleteUnavailability(_ context.Context, _ string, _ string) error {
	return m.deleteErr
}

// ── Mock UtilizationService ──

type mockUtilizationService struct {
	rows []dto.UtilizationReportRow
	err  error
}

func (m *mockUtilizationService) GetReport(_ context.Context, _ *dto.UtilizationReportRequest) ([]dto.UtilizationReportRow, error) {
	return m.rows, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportUtilization(_ context.Context, _ *dto.UtilizationReportRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock AssignmentService ──

type mockAssignmentService struct {
	createResult *dto.CreateAssignmentResponse
	createErr    error
	getResult    *dto.AssignmentResponse
	getErr       error
	listResult   []dto.AssignmentResponse
	listTotal    int64
	listErr      error
	hoursResult  *dto.AssignmentResponse
	hoursErr     error
	statusResult *dto.AssignmentResponse
	statusErr    error
}

func (m *mockAssignmentService) Create(_ context.Context, _ *dto.CreateAssignmentRequest, _ string) (*dto.CreateAssignmentResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockAssignmentService) GetByID(_ context.Context, _ string) (*dto.AssignmentResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockAssignmentService) List(_ context.Context, _ *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockAssignmentService) LogActualHours(_ context.Context, _ string, _ *dto.LogActualHoursRequest, _ string) (*dto.AssignmentResponse, error) {
	return m.hoursResult, m.hoursErr
}
func (m *mockAssignmentService) UpdateStatus(_ context.Context, _ string, _ *dto.UpdateAssignmentStatusRequest, _ string) (*dto.AssignmentResponse, error) {
	return m.statusResult, m.statusErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "scheduler")
	c.Set("token", "test-token")
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		EmployeeNo: "E1001",
		Password:   "Test1234",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		EmployeeNo: "E1001",
		Password:   "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BodyTooLarge(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		EmployeeNo: "E1001",
		Password:   "Test1234",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.Use(middleware.BodyLimit(8))
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != response.CodeBodyTooLarge {
		t.Errorf("expected error code %d, got %d", response.CodeBodyTooLarge, resp.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupGin()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.Me)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AvailabilityHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAvailabilityHandler_SetUnavailability_Success(t *testing.T) {
	mock := &mockAvailabilityService{
		setResult: &dto.SetUnavailabilityResponse{
			Created:   5,
			Conflicts: []dto.ConflictItem{},
		},
	}
	h := NewAvailabilityHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/unavailability", jsonBody(dto.SetUnavailabilityRequest{
		ResourceID: "11111111-1111-1111-1111-111111111111",
		StartDate:  "2024-03-04",
		EndDate:    "2024-03-08",
		Type:       "leave",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/unavailability", func(c *gin.Context) {
		setAuth(c)
		h.SetUnavailability(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestAvailabilityHandler_SetUnavailability_DegradedConflictCheck(t *testing.T) {
	// 冲突检查失败仍是成功响应，带 conflict_check_failed 标记
	mock := &mockAvailabilityService{
		setResult: &dto.SetUnavailabilityResponse{
			Created:             5,
			Conflicts:           nil,
			ConflictCheckFailed: true,
		},
	}
	h := NewAvailabilityHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/unavailability", jsonBody(dto.SetUnavailabilityRequest{
		ResourceID: "11111111-1111-1111-1111-111111111111",
		StartDate:  "2024-03-04",
		EndDate:    "2024-03-08",
		Type:       "leave",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/unavailability", func(c *gin.Context) {
		setAuth(c)
		h.SetUnavailability(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}

	var body struct {
		Data dto.SetUnavailabilityResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !body.Data.ConflictCheckFailed {
		t.Error("expected conflict_check_failed=true")
	}
	if body.Data.Conflicts != nil {
		t.Error("expected conflicts to be null")
	}
}

func TestAvailabilityHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"InvalidFormat", service.ErrInvalidDateFormat, 400, 15001},
		{"InvalidRange", service.ErrInvalidDateRange, 400, 15002},
		{"InvalidType", service.ErrInvalidUnavailabilityType, 400, 15003},
		{"ResourceNotFound", service.ErrResourceNotFound, 404, 12001},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAvailabilityHandler(&mockAvailabilityService{setErr: tt.err})

			w := setupGin()
			req := httptest.NewRequest("POST", "/unavailability", jsonBody(dto.SetUnavailabilityRequest{
				ResourceID: "11111111-1111-1111-1111-111111111111",
				StartDate:  "2024-03-04",
				EndDate:    "2024-03-08",
				Type:       "leave",
			}))
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.POST("/unavailability", func(c *gin.Context) {
				setAuth(c)
				h.SetUnavailability(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAvailabilityHandler_DeleteUnavailability_NotFound(t *testing.T) {
	h := NewAvailabilityHandler(&mockAvailabilityService{deleteErr: service.ErrUnavailabilityNotFound})

	w := setupGin()
	req := httptest.NewRequest("DELETE", "/resources/res-1/unavailability/2024-03-04", nil)

	r := gin.New()
	r.DELETE("/resources/:id/unavailability/:date", func(c *gin.Context) {
		setAuth(c)
		h.DeleteUnavailability(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// UtilizationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUtilizationHandler_GetReport_Success(t *testing.T) {
	mock := &mockUtilizationService{
		rows: []dto.UtilizationReportRow{
			{ResourceCode: "ENG-01", UtilizationPercentage: 50, Classification: "normal"},
		},
	}
	h := NewUtilizationHandler(mock, &mockExportService{})

	w := setupGin()
	req := httptest.NewRequest("GET", "/reports/utilization?date_from=2024-01-01&date_to=2024-01-10", nil)

	r := gin.New()
	r.GET("/reports/utilization", h.GetReport)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestUtilizationHandler_GetReport_MissingParams(t *testing.T) {
	h := NewUtilizationHandler(&mockUtilizationService{}, &mockExportService{})

	w := setupGin()
	req := httptest.NewRequest("GET", "/reports/utilization", nil)

	r := gin.New()
	r.GET("/reports/utilization", h.GetReport)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUtilizationHandler_GetReport_InvalidRange(t *testing.T) {
	h := NewUtilizationHandler(&mockUtilizationService{err: service.ErrInvalidDateRange}, &mockExportService{})

	w := setupGin()
	req := httptest.NewRequest("GET", "/reports/utilization?date_from=2024-01-10&date_to=2024-01-01", nil)

	r := gin.New()
	r.GET("/reports/utilization", h.GetReport)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15002 {
		t.Errorf("expected code 15002, got %d", resp.Code)
	}
}

func TestUtilizationHandler_ExportReport_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("excel content"),
		filename: "utilization_2024-01-01_2024-01-10.xlsx",
	}
	h := NewUtilizationHandler(&mockUtilizationService{}, mock)

	w := setupGin()
	req := httptest.NewRequest("GET", "/reports/utilization/export?date_from=2024-01-01&date_to=2024-01-10", nil)

	r := gin.New()
	r.GET("/reports/utilization/export", h.ExportReport)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %s", ct)
	}
	if w.Header().Get("Content-Disposition") == "" {
		t.Error("expected Content-Disposition header")
	}
}

// ═══════════════════════════════════════════════════════════
// AssignmentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAssignmentHandler_Create_Success(t *testing.T) {
	mock := &mockAssignmentService{
		createResult: &dto.CreateAssignmentResponse{
			Assignment: dto.AssignmentResponse{ID: "asn-1", Status: "planned"},
			Warnings:   []string{"资源在 2024-05-08 已登记不可用（training）"},
		},
	}
	h := NewAssignmentHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/assignments", jsonBody(dto.CreateAssignmentRequest{
		ResourceID:      "11111111-1111-1111-1111-111111111111",
		TaskDescription: "泵站检修",
		StartDate:       "2024-05-06",
		EndDate:         "2024-05-10",
		PlannedHours:    40,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/assignments", func(c *gin.Context) {
		setAuth(c)
		h.CreateAssignment(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestAssignmentHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrAssignmentNotFound, 404, 14001},
		{"ResourceInactive", service.ErrResourceInactive, 409, 14002},
		{"InvalidStatus", service.ErrInvalidAssignmentStatus, 400, 14003},
		{"InvalidTransition", service.ErrInvalidStatusTransition, 409, 14004},
		{"NotEditable", service.ErrAssignmentNotEditable, 409, 14005},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAssignmentHandler(&mockAssignmentService{statusErr: tt.err})

			w := setupGin()
			req := httptest.NewRequest("PUT", "/assignments/asn-1/status", jsonBody(dto.UpdateAssignmentStatusRequest{
				Status: "in_progress",
			}))
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.PUT("/assignments/:id/status", func(c *gin.Context) {
				setAuth(c)
				h.UpdateAssignmentStatus(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}
