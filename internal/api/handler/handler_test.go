package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiaodeng873/CareApp/internal/api/middleware"
	"github.com/xiaodeng873/CareApp/internal/careslot"
	"github.com/xiaodeng873/CareApp/internal/dto"
	"github.com/xiaodeng873/CareApp/internal/service"
	pkgerrors "github.com/xiaodeng873/CareApp/pkg/errors"
	"github.com/xiaodeng873/CareApp/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock ResidentService ──

type mockResidentService struct {
	listResult   []dto.ResidentResponse
	listErr      error
	getResult    *dto.ResidentResponse
	getErr       error
	lookupResult *dto.ScanResponse
	lookupErr    error
	scanResult   *dto.ScanResponse
	scanErr      error
	lastQuery    string
}

func (m *mockResidentService) List(_ context.Context, q string) ([]dto.ResidentResponse, error) {
	m.lastQuery = q
	return m.listResult, m.listErr
}
func (m *mockResidentService) Get(_ context.Context, _ int64) (*dto.ResidentResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockResidentService) Lookup(_ context.Context, q string) (*dto.ScanResponse, error) {
	m.lastQuery = q
	return m.lookupResult, m.lookupErr
}
func (m *mockResidentService) Scan(_ context.Context, _ string) (*dto.ScanResponse, error) {
	return m.scanResult, m.scanErr
}

// ── Mock CareRecordService ──

type mockCareRecordService struct {
	listResult   []dto.CareRecordResponse
	listErr      error
	gridResult   *dto.CareGridResponse
	gridErr      error
	upsertResult *dto.UpsertCareRecordResponse
	upsertErr    error
	deleteErr    error

	lastType    careslot.CareType
	lastSession *service.Session
	lastUpsert  *dto.UpsertCareRecordRequest
	lastView    string
}

func (m *mockCareRecordService) Slots(ct careslot.CareType) *dto.SlotsResponse {
	m.lastType = ct
	return &dto.SlotsResponse{CareType: string(ct), Label: ct.Label(), Slots: careslot.SlotsFor(ct)}
}
func (m *mockCareRecordService) List(_ context.Context, _ int64, ct careslot.CareType, _, _ string) ([]dto.CareRecordResponse, error) {
	m.lastType = ct
	return m.listResult, m.listErr
}
func (m *mockCareRecordService) Grid(_ context.Context, _ int64, ct careslot.CareType, _, view string) (*dto.CareGridResponse, error) {
	m.lastType = ct
	m.lastView = view
	return m.gridResult, m.gridErr
}
func (m *mockCareRecordService) Upsert(_ context.Context, _ int64, ct careslot.CareType, req *dto.UpsertCareRecordRequest, sess *service.Session) (*dto.UpsertCareRecordResponse, error) {
	m.lastType = ct
	m.lastUpsert = req
	m.lastSession = sess
	return m.upsertResult, m.upsertErr
}
func (m *mockCareRecordService) Delete(_ context.Context, ct careslot.CareType, _ string) error {
	m.lastType = ct
	return m.deleteErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportCareWeek(_ context.Context, _ int64, _ careslot.CareType, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock SessionService ──

type mockSessionService struct {
	logoutErr error
	loggedOut bool
}

func (m *mockSessionService) Describe(sess *service.Session) *dto.SessionResponse {
	return &dto.SessionResponse{UserID: sess.UserID, DisplayName: sess.DisplayName}
}
func (m *mockSessionService) Logout(_ context.Context, _ *service.Session) error {
	m.loggedOut = m.logoutErr == nil
	return m.logoutErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

var testSession = &service.Session{UserID: "user-1", DisplayName: "陳姑娘", TokenID: "jti-1"}

func setAuth(c *gin.Context) {
	c.Set(middleware.SessionKey, testSession)
}

func withAuth(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		setAuth(c)
		h(c)
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// ResidentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestResidentHandler_ListResidents(t *testing.T) {
	mock := &mockResidentService{listResult: []dto.ResidentResponse{{ID: 1, BedCode: "A01"}}}
	h := NewResidentHandler(mock)

	r := gin.New()
	r.GET("/residents", h.ListResidents)
	w := serve(r, "GET", "/residents?q=A0", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.lastQuery != "A0" {
		t.Errorf("expected query A0, got %q", mock.lastQuery)
	}
	var body struct {
		Data response.ListData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Total != 1 {
		t.Errorf("expected total 1, got %d", body.Data.Total)
	}
}

func TestResidentHandler_ListResidents_BackendFailure(t *testing.T) {
	mock := &mockResidentService{listErr: fmt.Errorf("%w: %w", pkgerrors.ErrBackendFailure, errors.New("dial tcp: refused"))}
	h := NewResidentHandler(mock)

	r := gin.New()
	r.GET("/residents", h.ListResidents)
	w := serve(r, "GET", "/residents", nil)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("dial tcp")) {
		t.Error("backend error detail should not leak")
	}
}

func TestResidentHandler_GetResident(t *testing.T) {
	h := NewResidentHandler(&mockResidentService{getErr: service.ErrResidentNotFound})

	r := gin.New()
	r.GET("/residents/:id", h.GetResident)

	if w := serve(r, "GET", "/residents/abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", w.Code)
	}
	w := serve(r, "GET", "/residents/99", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != codeResidentNotFound {
		t.Errorf("expected code %d, got %d", codeResidentNotFound, resp.Code)
	}
}

func TestResidentHandler_Lookup_RequiresQuery(t *testing.T) {
	h := NewResidentHandler(&mockResidentService{})

	r := gin.New()
	r.GET("/residents/lookup", h.Lookup)

	if w := serve(r, "GET", "/residents/lookup", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestResidentHandler_Lookup_BedVacant(t *testing.T) {
	mock := &mockResidentService{
		lookupResult: &dto.ScanResponse{Bed: &dto.BedResponse{ID: "bed-2", BedNumber: "C09"}},
		lookupErr:    service.ErrBedVacant,
	}
	h := NewResidentHandler(mock)

	r := gin.New()
	r.GET("/residents/lookup", h.Lookup)
	w := serve(r, "GET", "/residents/lookup?q=C09", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Code int              `json:"code"`
		Data dto.ScanResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Code != codeBedVacant {
		t.Errorf("expected code %d, got %d", codeBedVacant, body.Code)
	}
	if body.Data.Bed == nil || body.Data.Bed.BedNumber != "C09" || body.Data.Resident != nil {
		t.Errorf("expected vacant bed payload, got %+v", body.Data)
	}
}

func TestResidentHandler_Scan(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		body     interface{}
		wantHTTP int
		wantCode int
	}{
		{"success", nil, dto.ScanRequest{Payload: `{"type":"bed","qr_code_id":"QR-A01"}`}, http.StatusOK, 0},
		{"missing payload", nil, map[string]string{}, http.StatusBadRequest, codeValidation},
		{"invalid qr", service.ErrInvalidScan, dto.ScanRequest{Payload: "hello"}, http.StatusBadRequest, codeInvalidScan},
		{"unknown bed", service.ErrBedNotFound, dto.ScanRequest{Payload: "x"}, http.StatusNotFound, codeBedNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockResidentService{
				scanResult: &dto.ScanResponse{Resident: &dto.ResidentResponse{ID: 1}},
				scanErr:    tc.err,
			}
			h := NewResidentHandler(mock)

			r := gin.New()
			r.POST("/scan", h.Scan)
			w := serve(r, "POST", "/scan", jsonBody(tc.body))

			if w.Code != tc.wantHTTP {
				t.Errorf("expected %d, got %d", tc.wantHTTP, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tc.wantCode {
				t.Errorf("expected code %d, got %d", tc.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// CareRecordHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCareRecordHandler_Slots(t *testing.T) {
	mock := &mockCareRecordService{}
	h := NewCareRecordHandler(mock)

	r := gin.New()
	r.GET("/care/slots/:type", h.Slots)

	w := serve(r, "GET", "/care/slots/diaper", nil)
	if w.Code != http.StatusOK || mock.lastType != careslot.CareDiaper {
		t.Errorf("expected 200 for diaper, got %d (%s)", w.Code, mock.lastType)
	}

	w = serve(r, "GET", "/care/slots/toilet", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != codeInvalidCareType {
		t.Errorf("expected code %d, got %d", codeInvalidCareType, resp.Code)
	}
}

func TestCareRecordHandler_ListRecords_Validation(t *testing.T) {
	h := NewCareRecordHandler(&mockCareRecordService{listErr: service.ErrInvalidDateRange})

	r := gin.New()
	r.GET("/residents/:id/care/:type/records", h.ListRecords)

	if w := serve(r, "GET", "/residents/1/care/patrol/records", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without range, got %d", w.Code)
	}
	w := serve(r, "GET", "/residents/1/care/patrol/records?from=2026-10-16&to=2026-10-01", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != codeInvalidDateRange {
		t.Errorf("expected code %d, got %d", codeInvalidDateRange, resp.Code)
	}
}

func TestCareRecordHandler_Grid(t *testing.T) {
	mock := &mockCareRecordService{gridResult: &dto.CareGridResponse{ResidentID: 1, View: "week"}}
	h := NewCareRecordHandler(mock)

	r := gin.New()
	r.GET("/residents/:id/care/:type/grid", h.Grid)

	w := serve(r, "GET", "/residents/1/care/position/grid?view=week&date=2026-10-16", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.lastType != careslot.CarePosition || mock.lastView != "week" {
		t.Errorf("unexpected call: %s %s", mock.lastType, mock.lastView)
	}

	if w := serve(r, "GET", "/residents/1/care/position/grid?view=month", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for view=month, got %d", w.Code)
	}
}

func TestCareRecordHandler_Upsert_CreatedAndOverwritten(t *testing.T) {
	mock := &mockCareRecordService{upsertResult: &dto.UpsertCareRecordResponse{Created: true}}
	h := NewCareRecordHandler(mock)

	r := gin.New()
	r.PUT("/residents/:id/care/:type/records", withAuth(h.UpsertRecord))

	body := dto.UpsertCareRecordRequest{Date: "2026-10-16", Slot: "07:00", ActualTime: "07:02"}
	w := serve(r, "PUT", "/residents/1/care/patrol/records", jsonBody(body))
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if mock.lastSession != testSession || mock.lastUpsert.Slot != "07:00" {
		t.Errorf("session or request not passed through: %+v %+v", mock.lastSession, mock.lastUpsert)
	}

	mock.upsertResult = &dto.UpsertCareRecordResponse{Created: false}
	w = serve(r, "PUT", "/residents/1/care/patrol/records", jsonBody(body))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 on overwrite, got %d", w.Code)
	}
}

func TestCareRecordHandler_Upsert_Unauthenticated(t *testing.T) {
	h := NewCareRecordHandler(&mockCareRecordService{})

	r := gin.New()
	r.PUT("/residents/:id/care/:type/records", h.UpsertRecord)

	body := dto.UpsertCareRecordRequest{Date: "2026-10-16", Slot: "07:00"}
	if w := serve(r, "PUT", "/residents/1/care/patrol/records", jsonBody(body)); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestCareRecordHandler_Upsert_BindingRules(t *testing.T) {
	h := NewCareRecordHandler(&mockCareRecordService{upsertResult: &dto.UpsertCareRecordResponse{}})

	r := gin.New()
	r.PUT("/residents/:id/care/:type/records", withAuth(h.UpsertRecord))

	bad := []map[string]interface{}{
		{"slot": "07:00"},
		{"date": "16-10-2026", "slot": "07:00"},
		{"date": "2026-10-16", "slot": "11:00", "position": "上"},
		{"date": "2026-10-16", "slot": "09:00", "observation_status": "X"},
		{"date": "2026-10-16", "slot": "7AM-10AM", "has_stool": true, "stool_color": "藍"},
	}
	for _, b := range bad {
		if w := serve(r, "PUT", "/residents/1/care/patrol/records", jsonBody(b)); w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for %v, got %d", b, w.Code)
		}
	}
}

func TestCareRecordHandler_Upsert_ErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		wantHTTP int
		wantCode int
	}{
		{service.ErrEmptySelection, http.StatusBadRequest, codeEmptySelection},
		{service.ErrConflictingSelection, http.StatusBadRequest, codeConflictingSelected},
		{service.ErrInvalidSlot, http.StatusBadRequest, codeInvalidSlot},
		{service.ErrInvalidObservation, http.StatusBadRequest, codeInvalidCareInput},
		{service.ErrResidentNotFound, http.StatusNotFound, codeResidentNotFound},
		{fmt.Errorf("%w: %w", pkgerrors.ErrBackendFailure, errors.New("timeout")), http.StatusInternalServerError, 50000},
	}
	for _, tc := range cases {
		h := NewCareRecordHandler(&mockCareRecordService{upsertErr: tc.err})
		r := gin.New()
		r.PUT("/residents/:id/care/:type/records", withAuth(h.UpsertRecord))

		body := dto.UpsertCareRecordRequest{Date: "2026-10-16", Slot: "7AM-10AM"}
		w := serve(r, "PUT", "/residents/1/care/diaper/records", jsonBody(body))
		if w.Code != tc.wantHTTP {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.wantHTTP, w.Code)
		}
		if resp := parseResponse(w); resp.Code != tc.wantCode {
			t.Errorf("%v: expected code %d, got %d", tc.err, tc.wantCode, resp.Code)
		}
	}
}

func TestCareRecordHandler_DeleteRecord(t *testing.T) {
	mock := &mockCareRecordService{}
	h := NewCareRecordHandler(mock)

	r := gin.New()
	r.DELETE("/care/:type/records/:recordId", h.DeleteRecord)

	if w := serve(r, "DELETE", "/care/restraint/records/2b1c", nil); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	mock.deleteErr = service.ErrCareRecordNotFound
	w := serve(r, "DELETE", "/care/restraint/records/2b1c", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != codeCareRecordNotFound {
		t.Errorf("expected code %d, got %d", codeCareRecordNotFound, resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportCareWeek(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("xlsx"), filename: "A01_巡房_2026-10-12.xlsx"}
	h := NewExportHandler(mock)

	r := gin.New()
	r.GET("/export/care-week", h.ExportCareWeek)

	w := serve(r, "GET", "/export/care-week?resident_id=1&type=patrol", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !bytes.Contains([]byte(cd), []byte("A01_")) {
		t.Errorf("unexpected content disposition %s", cd)
	}

	if w := serve(r, "GET", "/export/care-week?resident_id=1&type=bath", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown type, got %d", w.Code)
	}
	if w := serve(r, "GET", "/export/care-week?type=patrol", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without resident_id, got %d", w.Code)
	}

	mock.err = service.ErrResidentNotFound
	if w := serve(r, "GET", "/export/care-week?resident_id=9&type=patrol", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// SessionHandler / HealthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSessionHandler(t *testing.T) {
	mock := &mockSessionService{}
	h := NewSessionHandler(mock)

	r := gin.New()
	r.GET("/session", withAuth(h.GetSession))
	r.POST("/session/logout", withAuth(h.Logout))
	r.GET("/anon", h.GetSession)

	w := serve(r, "GET", "/session", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w := serve(r, "GET", "/anon", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}

	if w := serve(r, "POST", "/session/logout", nil); w.Code != http.StatusOK || !mock.loggedOut {
		t.Errorf("expected logout 200, got %d", w.Code)
	}

	mock.logoutErr = fmt.Errorf("%w: %w", pkgerrors.ErrBackendFailure, errors.New("redis"))
	if w := serve(r, "POST", "/session/logout", nil); w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(map[string]HealthCheck{
		"db": func(context.Context) error { return nil },
	})
	r := gin.New()
	r.GET("/health", h.Health)

	if w := serve(r, "GET", "/health", nil); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	h = NewHealthHandler(map[string]HealthCheck{
		"db":    func(context.Context) error { return nil },
		"redis": func(ctx context.Context) error { <-time.After(time.Millisecond); return errors.New("down") },
	})
	r = gin.New()
	r.GET("/health", h.Health)

	w := serve(r, "GET", "/health", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"redis":"unavailable"`)) {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}
