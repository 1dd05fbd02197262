package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/SemperAdmin/DutySync-sub000/internal/dto"
	"github.com/SemperAdmin/DutySync-sub000/internal/model"
	"github.com/SemperAdmin/DutySync-sub000/internal/repository"
	"github.com/SemperAdmin/DutySync-sub000/internal/store"
	"github.com/SemperAdmin/DutySync-sub000/internal/syncrelay"
)

// recordingQueue captures relay tasks for assertions.
type recordingQueue struct {
	tasks []syncrelay.Task
}

func (q *recordingQueue) Enqueue(task syncrelay.Task) { q.tasks = append(q.tasks, task) }

func (q *recordingQueue) kinds() []string {
	out := make([]string, 0, len(q.tasks))
	for _, task := range q.tasks {
		out = append(out, task.Kind)
	}
	return out
}

type swapFixture struct {
	svc   SwapService
	repo  *repository.Repository
	mocks *mockRepos
	queue *recordingQueue
}

// newSwapFixture seeds the unit tree, two duty types, two people and one
// scheduled slot each.
func newSwapFixture(t *testing.T, unitA, unitB string) *swapFixture {
	t.Helper()
	repo, mocks := buildTree(t)

	mocks.personnel.people["p1"] = model.Personnel{
		PersonnelID: "p1", ServiceNumber: "1000000001", Name: "Reyes", UnitID: unitA,
	}
	mocks.personnel.people["p2"] = model.Personnel{
		PersonnelID: "p2", ServiceNumber: "1000000002", Name: "Okafor", UnitID: unitB,
	}

	mocks.dutyType.types["dt1"] = model.DutyType{
		DutyTypeID: "dt1", UnitID: unitA, Name: "Staff Duty", IsActive: true,
	}
	mocks.dutyType.types["dt2"] = model.DutyType{
		DutyTypeID: "dt2", UnitID: unitB, Name: "CQ", IsActive: true,
	}

	p1, p2 := "p1", "p2"
	mocks.dutySlot.slots["s1"] = model.DutySlot{
		DutySlotID: "s1",
		DutyDate:   time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
		DutyTypeID: "dt1", PersonnelID: &p1, Status: model.SlotStatusScheduled,
	}
	mocks.dutySlot.slots["s2"] = model.DutySlot{
		DutySlotID: "s2",
		DutyDate:   time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		DutyTypeID: "dt2", PersonnelID: &p2, Status: model.SlotStatusScheduled,
	}

	st := store.New(repo, nil, zap.NewNop())
	queue := &recordingQueue{}
	svc := NewSwapService(repo, st, NewHierarchyResolver(st), queue, zap.NewNop())

	return &swapFixture{svc: svc, repo: repo, mocks: mocks, queue: queue}
}

func defaultCreate() *dto.CreateSwapRequest {
	return &dto.CreateSwapRequest{
		InitiatorPersonnelID: "p1",
		InitiatorSlotID:      "s1",
		PartnerPersonnelID:   "p2",
		PartnerSlotID:        "s2",
		Reason:               "family event",
	}
}

func TestSwapCreate_SameWorkSection_SingleApproverStep(t *testing.T) {
	f := newSwapFixture(t, "ws-a1a", "ws-a1a")

	pair, err := f.svc.Create(context.Background(), defaultCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(pair.Sides) != 2 {
		t.Fatalf("expected 2 sides, got %d", len(pair.Sides))
	}
	if pair.Status != model.SwapStatusPending {
		t.Errorf("expected pending pair, got %s", pair.Status)
	}
	if !pair.Sides[0].PartnerAccepted {
		t.Error("initiator side must be auto-accepted")
	}
	if pair.Sides[1].PartnerAccepted {
		t.Error("partner side must start unaccepted")
	}

	for _, side := range pair.Sides {
		if len(side.Approvals) != 1 {
			t.Fatalf("same work section needs exactly 1 step per side, got %d", len(side.Approvals))
		}
		step := side.Approvals[0]
		if step.ApproverType != model.ApproverWorkSectionManager {
			t.Errorf("expected work_section_manager step, got %s", step.ApproverType)
		}
		if !step.IsApprover {
			t.Error("the single step must be the decision gate")
		}
	}
}

func TestSwapCreate_AcrossCompanies_ThreeStepChains(t *testing.T) {
	f := newSwapFixture(t, "ws-a1a", "ws-b1a")

	pair, err := f.svc.Create(context.Background(), defaultCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, side := range pair.Sides {
		if len(side.Approvals) != 3 {
			t.Fatalf("cross-company swap needs 3 steps per side, got %d", len(side.Approvals))
		}
		wantTypes := []string{
			model.ApproverWorkSectionManager,
			model.ApproverSectionManager,
			model.ApproverCompanyManager,
		}
		for i, step := range side.Approvals {
			if step.ApprovalOrder != i+1 {
				t.Errorf("step %d: expected order %d, got %d", i, i+1, step.ApprovalOrder)
			}
			if step.ApproverType != wantTypes[i] {
				t.Errorf("step %d: expected %s, got %s", i, wantTypes[i], step.ApproverType)
			}
			if gate := step.ApproverType == model.ApproverCompanyManager; step.IsApprover != gate {
				t.Errorf("step %s: is_approver = %v", step.ApproverType, step.IsApprover)
			}
		}
	}
}

func TestSwapCreate_Validation(t *testing.T) {
	f := newSwapFixture(t, "ws-a1a", "ws-a1a")
	ctx := context.Background()

	req := defaultCreate()
	req.PartnerPersonnelID = "p1"
	if _, err := f.svc.Create(ctx, req); !errors.Is(err, ErrSwapWithSelf) {
		t.Errorf("self swap: expected ErrSwapWithSelf, got %v", err)
	}

	req = defaultCreate()
	req.InitiatorSlotID = "s2"
	if _, err := f.svc.Create(ctx, req); !errors.Is(err, ErrSlotNotHeldByPersonnel) {
		t.Errorf("foreign slot: expected ErrSlotNotHeldByPersonnel, got %v", err)
	}

	req = defaultCreate()
	req.InitiatorSlotID = "missing"
	if _, err := f.svc.Create(ctx, req); !errors.Is(err, ErrSwapSlotNotFound) {
		t.Errorf("missing slot: expected ErrSwapSlotNotFound, got %v", err)
	}

	// A second pair touching either slot while the first is pending.
	if _, err := f.svc.Create(ctx, defaultCreate()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := f.svc.Create(ctx, defaultCreate()); !errors.Is(err, ErrSlotInActiveSwap) {
		t.Errorf("in-flight slot: expected ErrSlotInActiveSwap, got %v", err)
	}
}

func TestSwapAccept_PairWide(t *testing.T) {
	f := newSwapFixture(t, "ws-a1a", "ws-a1a")
	ctx := context.Background()

	pair, err := f.svc.Create(ctx, defaultCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.svc.Accept(ctx, pair.SwapPairID, "p1"); !errors.Is(err, ErrNotSwapPartner) {
		t.Errorf("initiator accepting: expected ErrNotSwapPartner, got %v", err)
	}

	pair, err = f.svc.Accept(ctx, pair.SwapPairID, "p2")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	for _, side := range pair.Sides {
		if !side.PartnerAccepted {
			t.Error("acceptance must flip both rows")
		}
	}

	if _, err := f.svc.Accept(ctx, pair.SwapPairID, "p2"); !errors.Is(err, ErrSwapAlreadyAccepted) {
		t.Errorf("double accept: expected ErrSwapAlreadyAccepted, got %v", err)
	}
}

func TestSwapApprove_RequiresAcceptance(t *testing.T) {
	f := newSwapFixture(t, "ws-a1a", "ws-a1a")
	ctx := context.Background()

	pair, err := f.svc.Create(ctx, defaultCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stepID := pair.Sides[0].Approvals[0].ApprovalID
	if _, err := f.svc.ApproveStep(ctx, stepID, "mgr", ""); !errors.Is(err, ErrPartnerNotAccepted) {
		t.Errorf("expected ErrPartnerNotAccepted, got %v", err)
	}
}

func TestSwapApprove_FullFlowExecutesExchange(t *testing.T) {
	f := newSwapFixture(t, "ws-a1a", "ws-a1a")
	ctx := context.Background()

	pair, err := f.svc.Create(ctx, defaultCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.Accept(ctx, pair.SwapPairID, "p2"); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	pair, _ = f.svc.GetPair(ctx, pair.SwapPairID)
	for _, side := range pair.Sides {
		pair, err = f.svc.ApproveStep(ctx, side.Approvals[0].ApprovalID, "mgr-a1a", "cleared")
		if err != nil {
			t.Fatalf("ApproveStep: %v", err)
		}
	}

	if pair.Status != model.SwapStatusApproved {
		t.Fatalf("expected approved pair, got %s", pair.Status)
	}
	for _, side := range pair.Sides {
		if side.Status != model.SwapStatusApproved {
			t.Errorf("both rows must reach the same terminal status, got %s", side.Status)
		}
	}

	s1 := f.mocks.dutySlot.slots["s1"]
	s2 := f.mocks.dutySlot.slots["s2"]
	if s1.PersonnelID == nil || *s1.PersonnelID != "p2" {
		t.Errorf("s1 must now hold p2, got %v", s1.PersonnelID)
	}
	if s2.PersonnelID == nil || *s2.PersonnelID != "p1" {
		t.Errorf("s2 must now hold p1, got %v", s2.PersonnelID)
	}
	if s1.Status != model.SlotStatusSwapped || s2.Status != model.SlotStatusSwapped {
		t.Errorf("both slots must be swapped, got %s / %s", s1.Status, s2.Status)
	}
	if s1.SwappedFromPersonnelID == nil || *s1.SwappedFromPersonnelID != "p1" {
		t.Errorf("s1 must record its original holder p1, got %v", s1.SwappedFromPersonnelID)
	}
	if s1.SwapPairID == nil || *s1.SwapPairID != pair.SwapPairID {
		t.Error("slots must reference the finalizing pair")
	}

	var sawResult bool
	for _, kind := range f.queue.kinds() {
		if kind == syncrelay.KindSwapResult {
			sawResult = true
		}
	}
	if !sawResult {
		t.Error("an executed swap must enqueue a swap_result push")
	}
}

func TestSwapApprove_MissingSlotAborts(t *testing.T) {
	f := newSwapFixture(t, "ws-a1a", "ws-a1a")
	ctx := context.Background()

	pair, err := f.svc.Create(ctx, defaultCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.Accept(ctx, pair.SwapPairID, "p2"); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	pair, _ = f.svc.GetPair(ctx, pair.SwapPairID)
	if _, err := f.svc.ApproveStep(ctx, pair.Sides[0].Approvals[0].ApprovalID, "mgr", ""); err != nil {
		t.Fatalf("first ApproveStep: %v", err)
	}

	delete(f.mocks.dutySlot.slots, "s2")

	if _, err := f.svc.ApproveStep(ctx, pair.Sides[1].Approvals[0].ApprovalID, "mgr", ""); !errors.Is(err, ErrSwapSlotMissing) {
		t.Errorf("expected ErrSwapSlotMissing, got %v", err)
	}
	if s1 := f.mocks.dutySlot.slots["s1"]; s1.Status != model.SlotStatusScheduled {
		t.Errorf("surviving slot must stay untouched, got %s", s1.Status)
	}
}

func TestSwapApprove_FailedExchangeDoesNotPush(t *testing.T) {
	f := newSwapFixture(t, "ws-a1a", "ws-a1a")
	ctx := context.Background()

	pair, err := f.svc.Create(ctx, defaultCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.Accept(ctx, pair.SwapPairID, "p2"); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	pair, _ = f.svc.GetPair(ctx, pair.SwapPairID)
	if _, err := f.svc.ApproveStep(ctx, pair.Sides[0].Approvals[0].ApprovalID, "mgr", ""); err != nil {
		t.Fatalf("first ApproveStep: %v", err)
	}

	// The final approval completes the pair, but persisting the exchange
	// fails, so nothing may reach the mirror.
	f.mocks.swap.updateReqErr = errors.New("connection reset")
	if _, err := f.svc.ApproveStep(ctx, pair.Sides[1].Approvals[0].ApprovalID, "mgr", ""); err == nil {
		t.Fatal("expected the exchange to fail")
	}

	for _, kind := range f.queue.kinds() {
		if kind == syncrelay.KindSwapResult {
			t.Fatal("a failed exchange must not enqueue a swap_result push")
		}
	}
}

func TestSwapReject_RejectsBothRows(t *testing.T) {
	f := newSwapFixture(t, "ws-a1a", "ws-b1a")
	ctx := context.Background()

	pair, err := f.svc.Create(ctx, defaultCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	pair, err = f.svc.Reject(ctx, pair.SwapPairID, "mission conflict", "mgr")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}

	if pair.Status != model.SwapStatusRejected {
		t.Fatalf("expected rejected pair, got %s", pair.Status)
	}
	for _, side := range pair.Sides {
		if side.Status != model.SwapStatusRejected {
			t.Errorf("both rows must reject together, got %s", side.Status)
		}
		if side.RejectReason != "mission conflict" {
			t.Errorf("rows must share the reject reason, got %q", side.RejectReason)
		}
		for _, step := range side.Approvals {
			if step.Status == model.ApprovalStatusPending {
				t.Error("pending steps must be closed on rejection")
			}
		}
	}

	// Slots keep their original holders.
	if s1 := f.mocks.dutySlot.slots["s1"]; *s1.PersonnelID != "p1" || s1.Status != model.SlotStatusScheduled {
		t.Error("rejection must not touch slots")
	}

	if _, err := f.svc.Reject(ctx, pair.SwapPairID, "again", "mgr"); !errors.Is(err, ErrSwapNotPending) {
		t.Errorf("re-reject: expected ErrSwapNotPending, got %v", err)
	}
}

func TestSwapDelete_RemovesEverything(t *testing.T) {
	f := newSwapFixture(t, "ws-a1a", "ws-b1a")
	ctx := context.Background()

	pair, err := f.svc.Create(ctx, defaultCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.mocks.personnel.people["mgr"] = model.Personnel{
		PersonnelID: "mgr", ServiceNumber: "1000000099", UnitID: "sec-b1",
	}
	// sec-b1 sits inside p2's chain, so this manager cannot recommend; use a
	// recommendation seeded directly to exercise orphan cleanup.
	f.mocks.swap.recs = append(f.mocks.swap.recs, model.SwapRecommendation{
		RecommendationID: "r1", SwapPairID: pair.SwapPairID, ManagerID: "mgr",
		Stance: model.StanceRecommend,
	})

	if err := f.svc.Delete(ctx, pair.SwapPairID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(f.mocks.swap.requests) != 0 {
		t.Errorf("expected no surviving rows, got %d", len(f.mocks.swap.requests))
	}
	if len(f.mocks.swap.approvals) != 0 {
		t.Errorf("expected no orphan approvals, got %d", len(f.mocks.swap.approvals))
	}
	if len(f.mocks.swap.recs) != 0 {
		t.Errorf("expected no orphan recommendations, got %d", len(f.mocks.swap.recs))
	}

	if err := f.svc.Delete(ctx, pair.SwapPairID); !errors.Is(err, ErrSwapPairNotFound) {
		t.Errorf("re-delete: expected ErrSwapPairNotFound, got %v", err)
	}
}

func TestSwapRecommend_ChainMembersExcluded(t *testing.T) {
	f := newSwapFixture(t, "ws-a1a", "ws-a1b")
	ctx := context.Background()

	pair, err := f.svc.Create(ctx, defaultCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A manager scoped to a chain unit must approve, not recommend.
	f.mocks.personnel.people["mgr-in"] = model.Personnel{
		PersonnelID: "mgr-in", ServiceNumber: "1000000010", UnitID: "sec-a1",
	}
	err = f.svc.Recommend(ctx, pair.SwapPairID, "mgr-in", &dto.RecommendSwapRequest{
		Stance: model.StanceRecommend,
	})
	if !errors.Is(err, ErrRecommenderIsApprover) {
		t.Errorf("expected ErrRecommenderIsApprover, got %v", err)
	}

	// A manager from an unrelated company may weigh in.
	f.mocks.personnel.people["mgr-out"] = model.Personnel{
		PersonnelID: "mgr-out", ServiceNumber: "1000000011", UnitID: "sec-b1",
	}
	err = f.svc.Recommend(ctx, pair.SwapPairID, "mgr-out", &dto.RecommendSwapRequest{
		Stance: model.StanceNotRecommend, Comment: "short on drivers that week",
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	pair, _ = f.svc.GetPair(ctx, pair.SwapPairID)
	if len(pair.Recommendations) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(pair.Recommendations))
	}
	if pair.Recommendations[0].Stance != model.StanceNotRecommend {
		t.Errorf("unexpected stance %s", pair.Recommendations[0].Stance)
	}
	// Recommendations never move workflow state.
	if pair.Status != model.SwapStatusPending {
		t.Errorf("pair must stay pending, got %s", pair.Status)
	}
}
