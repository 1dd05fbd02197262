package service

import (
	"context"

	"github.com/SemperAdmin/DutySync-sub000/internal/model"
	"github.com/SemperAdmin/DutySync-sub000/internal/store"
)

// HierarchyResolver answers ancestry questions over the unit tree. It decides
// how many approval steps a swap needs and which level holds the actual
// decision gate.
type HierarchyResolver struct {
	store *store.Store
}

// NewHierarchyResolver creates a resolver over the cached unit collection.
func NewHierarchyResolver(st *store.Store) *HierarchyResolver {
	return &HierarchyResolver{store: st}
}

func (r *HierarchyResolver) unitIndex(ctx context.Context) (map[string]model.Unit, error) {
	units, err := r.store.Units(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]model.Unit, len(units))
	for _, u := range units {
		idx[u.UnitID] = u
	}
	return idx, nil
}

// AncestorChain returns the unit itself followed by each parent up to the
// root. The tree is cycle-free by construction; the visited set guards
// against bad imported data looping forever.
func (r *HierarchyResolver) AncestorChain(ctx context.Context, unitID string) ([]model.Unit, error) {
	idx, err := r.unitIndex(ctx)
	if err != nil {
		return nil, err
	}
	return ancestorChain(idx, unitID), nil
}

func ancestorChain(idx map[string]model.Unit, unitID string) []model.Unit {
	var chain []model.Unit
	visited := make(map[string]bool)

	current := unitID
	for current != "" && !visited[current] {
		visited[current] = true
		u, ok := idx[current]
		if !ok {
			break
		}
		chain = append(chain, u)
		if u.ParentID == nil {
			break
		}
		current = *u.ParentID
	}
	return chain
}

// approverLevelFor maps a unit's hierarchy level to the approver level that
// decides swaps at that scope. Anything above section decides at company
// level.
func approverLevelFor(level string) string {
	switch level {
	case model.HierarchyLevelWorkSection:
		return model.ApproverWorkSectionManager
	case model.HierarchyLevelSection:
		return model.ApproverSectionManager
	default:
		return model.ApproverCompanyManager
	}
}

// LowestCommonAncestor finds the most specific unit under which both
// personnel fall and the approver level that scope implies. When the two
// share no ancestor, the conservative fallback is company-manager approval
// with no LCA unit; that is a policy default, not an error.
func (r *HierarchyResolver) LowestCommonAncestor(ctx context.Context, a, b *model.Personnel) (*string, string, error) {
	if a.UnitID == b.UnitID {
		unitID := a.UnitID
		return &unitID, model.ApproverWorkSectionManager, nil
	}

	idx, err := r.unitIndex(ctx)
	if err != nil {
		return nil, "", err
	}

	unitA, okA := idx[a.UnitID]
	unitB, okB := idx[b.UnitID]
	if okA && okB && unitA.ParentID != nil && unitB.ParentID != nil &&
		*unitA.ParentID == *unitB.ParentID {
		parentID := *unitA.ParentID
		return &parentID, model.ApproverSectionManager, nil
	}

	inChainA := make(map[string]bool)
	for _, u := range ancestorChain(idx, a.UnitID) {
		inChainA[u.UnitID] = true
	}
	for _, u := range ancestorChain(idx, b.UnitID) {
		if inChainA[u.UnitID] {
			unitID := u.UnitID
			return &unitID, approverLevelFor(u.HierarchyLevel), nil
		}
	}

	return nil, model.ApproverCompanyManager, nil
}
