package a1

import (
	"context"

	"github.com/marcus-qen/a1bridge/internal/shared/fanout"
)

// primitives are the per-type and per-instance calls both adapters provide;
// the all-instances operations are composed from them the same way for both.
type primitives interface {
	PolicyTypeIDs(ctx context.Context) ([]string, error)
	policyIDsForType(ctx context.Context, typeID string) ([]string, error)
	deletePolicyByID(ctx context.Context, typeID, policyID string) (string, error)
}

func allPolicyIDs(ctx context.Context, p primitives, limit int) ([]string, error) {
	typeIDs, err := p.PolicyTypeIDs(ctx)
	if err != nil {
		return nil, err
	}
	return fanout.Run(ctx, limit, typeIDs, p.policyIDsForType)
}

func deleteAllPolicies(ctx context.Context, p primitives, limit int, exclude IDSet) ([]string, error) {
	typeIDs, err := p.PolicyTypeIDs(ctx)
	if err != nil {
		return nil, err
	}
	return fanout.Run(ctx, limit, typeIDs, func(ctx context.Context, typeID string) ([]string, error) {
		return deletePoliciesForType(ctx, p, limit, typeID, exclude)
	})
}

func deletePoliciesForType(ctx context.Context, p primitives, limit int, typeID string, exclude IDSet) ([]string, error) {
	policyIDs, err := p.policyIDsForType(ctx, typeID)
	if err != nil {
		return nil, err
	}

	doomed := make([]string, 0, len(policyIDs))
	for _, id := range policyIDs {
		if !exclude.Has(id) {
			doomed = append(doomed, id)
		}
	}

	return fanout.Run(ctx, limit, doomed, func(ctx context.Context, policyID string) ([]string, error) {
		if _, err := p.deletePolicyByID(ctx, typeID, policyID); err != nil {
			return nil, err
		}
		return []string{policyID}, nil
	})
}
