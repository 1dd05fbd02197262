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
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SemperAdmin/DutySync-sub000/internal/dto"
	"github.com/SemperAdmin/DutySync-sub000/internal/model"
	"github.com/SemperAdmin/DutySync-sub000/internal/service"
	"github.com/SemperAdmin/DutySync-sub000/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock SwapService ──

type mockSwapService struct {
	pair    *dto.SwapPairResponse
	pairs   []dto.SwapPairResponse
	err     error
	recErr  error
	delErr  error
	lastReq *dto.CreateSwapRequest
}

func (m *mockSwapService) Create(_ context.Context, req *dto.CreateSwapRequest) (*dto.SwapPairResponse, error) {
	m.lastReq = req
	return m.pair, m.err
}
func (m *mockSwapService) Accept(_ context.Context, _, _ string) (*dto.SwapPairResponse, error) {
	return m.pair, m.err
}
func (m *mockSwapService) ApproveStep(_ context.Context, _, _, _ string) (*dto.SwapPairResponse, error) {
	return m.pair, m.err
}
func (m *mockSwapService) Reject(_ context.Context, _, _, _ string) (*dto.SwapPairResponse, error) {
	return m.pair, m.err
}
func (m *mockSwapService) Delete(_ context.Context, _ string) error { return m.delErr }
func (m *mockSwapService) Recommend(_ context.Context, _, _ string, _ *dto.RecommendSwapRequest) error {
	return m.recErr
}
func (m *mockSwapService) GetPair(_ context.Context, _ string) (*dto.SwapPairResponse, error) {
	return m.pair, m.err
}
func (m *mockSwapService) ListPending(_ context.Context) ([]dto.SwapPairResponse, error) {
	return m.pairs, m.err
}

// ── Mock RosterService ──

type mockRosterService struct {
	approveResult   *dto.ApproveRosterResponse
	approveErr      error
	unapproveResult *dto.UnapproveRosterResponse
	unapproveErr    error
	isApproved      bool
	isApprovedErr   error
	list            []model.ApprovedRoster
	listErr         error
}

func (m *mockRosterService) Approve(_ context.Context, _ *dto.ApproveRosterRequest, _ string) (*dto.ApproveRosterResponse, error) {
	return m.approveResult, m.approveErr
}
func (m *mockRosterService) Unapprove(_ context.Context, _ string, _, _ int) (*dto.UnapproveRosterResponse, error) {
	return m.unapproveResult, m.unapproveErr
}
func (m *mockRosterService) IsApproved(_ context.Context, _ string, _, _ int) (bool, error) {
	return m.isApproved, m.isApprovedErr
}
func (m *mockRosterService) ListApproved(_ context.Context, _ string) ([]model.ApprovedRoster, error) {
	return m.list, m.listErr
}

// ── Mock ExportService / CalendarService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportRoster(_ context.Context, _ string, _, _ int) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

type mockCalendarService struct {
	feed string
	err  error
}

func (m *mockCalendarService) PersonnelFeed(_ context.Context, _ string, _, _ time.Time) (string, error) {
	return m.feed, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "admin")
	c.Set("personnel_id", "test-personnel-id")
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

func validCreateSwap() dto.CreateSwapRequest {
	return dto.CreateSwapRequest{
		InitiatorPersonnelID: "test-personnel-id",
		InitiatorSlotID:      "11111111-1111-1111-1111-111111111111",
		PartnerPersonnelID:   "22222222-2222-2222-2222-222222222222",
		PartnerSlotID:        "33333333-3333-3333-3333-333333333333",
	}
}

// ═══════════════════════════════════════════════════════════
// SwapHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSwapHandler_CreateSwap_Success(t *testing.T) {
	mock := &mockSwapService{pair: &dto.SwapPairResponse{SwapPairID: "pair-1", Status: "pending"}}
	h := NewSwapHandler(mock)

	req := validCreateSwap()
	// binding requires uuid-shaped ids
	req.InitiatorPersonnelID = "44444444-4444-4444-4444-444444444444"

	w := httptest.NewRecorder()
	r := gin.New()
	r.POST("/swaps", func(c *gin.Context) {
		c.Set("user_id", "test-user-id")
		c.Set("role", "member")
		c.Set("personnel_id", req.InitiatorPersonnelID)
		h.CreateSwap(c)
	})
	httpReq := httptest.NewRequest("POST", "/swaps", jsonBody(req))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	if mock.lastReq == nil {
		t.Fatal("service not invoked")
	}
}

func TestSwapHandler_CreateSwap_OnBehalfOfOther(t *testing.T) {
	mock := &mockSwapService{}
	h := NewSwapHandler(mock)

	req := validCreateSwap()
	req.InitiatorPersonnelID = "44444444-4444-4444-4444-444444444444" // not the caller

	w := httptest.NewRecorder()
	r := gin.New()
	r.POST("/swaps", func(c *gin.Context) {
		setAuth(c)
		h.CreateSwap(c)
	})
	httpReq := httptest.NewRequest("POST", "/swaps", jsonBody(req))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	if mock.lastReq != nil {
		t.Error("service must not be invoked")
	}
}

func TestSwapHandler_AcceptSwap_Unlinked(t *testing.T) {
	mock := &mockSwapService{}
	h := NewSwapHandler(mock)

	w := httptest.NewRecorder()
	r := gin.New()
	r.POST("/swaps/:pair_id/accept", func(c *gin.Context) {
		c.Set("user_id", "test-user-id")
		c.Set("role", "admin")
		c.Set("personnel_id", "") // account without personnel link
		h.AcceptSwap(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("POST", "/swaps/pair-1/accept", nil))

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestSwapHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"PairNotFound", service.ErrSwapPairNotFound, 404, 14001},
		{"SlotNotFound", service.ErrSwapSlotNotFound, 400, 14002},
		{"NotHeld", service.ErrSlotNotHeldByPersonnel, 400, 14003},
		{"NotSwappable", service.ErrSlotNotSwappable, 400, 14004},
		{"InActiveSwap", service.ErrSlotInActiveSwap, 409, 14005},
		{"WithSelf", service.ErrSwapWithSelf, 400, 14006},
		{"SameSlot", service.ErrSwapSameSlot, 400, 14007},
		{"NotPending", service.ErrSwapNotPending, 409, 14008},
		{"NotPartner", service.ErrNotSwapPartner, 403, 14009},
		{"AlreadyAccepted", service.ErrSwapAlreadyAccepted, 409, 14010},
		{"ApprovalNotFound", service.ErrApprovalNotFound, 404, 14011},
		{"ApprovalNotPending", service.ErrApprovalNotPending, 409, 14012},
		{"PartnerNotAccepted", service.ErrPartnerNotAccepted, 409, 14013},
		{"SlotMissing", service.ErrSwapSlotMissing, 409, 14014},
		{"RecommenderIsApprover", service.ErrRecommenderIsApprover, 400, 14015},
		{"Unknown", errors.New("boom"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockSwapService{err: tt.err}
			h := NewSwapHandler(mock)

			w := httptest.NewRecorder()
			r := gin.New()
			r.GET("/swaps/:pair_id", h.GetSwap)
			r.ServeHTTP(w, httptest.NewRequest("GET", "/swaps/pair-1", nil))

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

func TestSwapHandler_RejectSwap_RequiresReason(t *testing.T) {
	mock := &mockSwapService{}
	h := NewSwapHandler(mock)

	w := httptest.NewRecorder()
	r := gin.New()
	r.POST("/swaps/:pair_id/reject", func(c *gin.Context) {
		setAuth(c)
		h.RejectSwap(c)
	})
	httpReq := httptest.NewRequest("POST", "/swaps/pair-1/reject", jsonBody(map[string]string{}))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// RosterHandler Tests
// ═══════════════════════════════════════════════════════════

func TestRosterHandler_Approve_Success(t *testing.T) {
	mock := &mockRosterService{
		approveResult: &dto.ApproveRosterResponse{
			RosterID:    "r-1",
			ScoredSlots: 3,
			TotalPoints: 11,
		},
	}
	h := NewRosterHandler(mock)

	w := httptest.NewRecorder()
	r := gin.New()
	r.POST("/rosters/approve", func(c *gin.Context) {
		setAuth(c)
		h.ApproveRoster(c)
	})
	httpReq := httptest.NewRequest("POST", "/rosters/approve", jsonBody(dto.ApproveRosterRequest{
		UnitID: "55555555-5555-5555-5555-555555555555",
		Year:   2026,
		Month:  3,
	}))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestRosterHandler_Approve_AlreadyApproved(t *testing.T) {
	mock := &mockRosterService{approveErr: service.ErrRosterAlreadyApproved}
	h := NewRosterHandler(mock)

	w := httptest.NewRecorder()
	r := gin.New()
	r.POST("/rosters/approve", func(c *gin.Context) {
		setAuth(c)
		h.ApproveRoster(c)
	})
	httpReq := httptest.NewRequest("POST", "/rosters/approve", jsonBody(dto.ApproveRosterRequest{
		UnitID: "55555555-5555-5555-5555-555555555555",
		Year:   2026,
		Month:  3,
	}))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15002 {
		t.Errorf("expected code 15002, got %d", resp.Code)
	}
}

func TestRosterHandler_Status_BadQuery(t *testing.T) {
	h := NewRosterHandler(&mockRosterService{})

	w := httptest.NewRecorder()
	r := gin.New()
	r.GET("/rosters/status", h.GetRosterStatus)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/rosters/status?unit_id=u1&year=2026&month=13", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Roster_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("xlsx bytes"),
		filename: "roster_A-CO_2026-03.xlsx",
	}
	h := NewExportHandler(mock, &mockCalendarService{})

	w := httptest.NewRecorder()
	r := gin.New()
	r.GET("/export/roster", h.ExportRoster)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/export/roster?unit_id=u1&year=2026&month=3", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestExportHandler_Roster_UnitNotFound(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrUnitNotFound}, &mockCalendarService{})

	w := httptest.NewRecorder()
	r := gin.New()
	r.GET("/export/roster", h.ExportRoster)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/export/roster?unit_id=u1&year=2026&month=3", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 17001 {
		t.Errorf("expected code 17001, got %d", resp.Code)
	}
}

func TestExportHandler_Calendar_Success(t *testing.T) {
	h := NewExportHandler(&mockExportService{}, &mockCalendarService{feed: "BEGIN:VCALENDAR\nEND:VCALENDAR\n"})

	w := httptest.NewRecorder()
	r := gin.New()
	r.GET("/export/calendar", func(c *gin.Context) {
		setAuth(c)
		h.MyCalendar(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("GET", "/export/calendar", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("VCALENDAR")) {
		t.Error("expected an iCalendar body")
	}
}

// ═══════════════════════════════════════════════════════════
// Query helper Tests
// ═══════════════════════════════════════════════════════════

func TestYearMonthValidation(t *testing.T) {
	tests := []struct {
		query string
		ok    bool
	}{
		{"year=2026&month=3", true},
		{"year=2026&month=0", false},
		{"year=2026&month=13", false},
		{"year=1999&month=3", false},
		{"month=3", false},
		{"year=abc&month=3", false},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/?"+tt.query, nil)

		_, _, ok := yearMonth(c)
		if ok != tt.ok {
			t.Errorf("yearMonth(%q) ok = %v, want %v", tt.query, ok, tt.ok)
		}
	}
}
