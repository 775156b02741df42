package branch

import (
	"fmt"
	"strings"

	"github.com/kevin07696/gym-admin/internal/domain"
	pkgerrors "github.com/kevin07696/gym-admin/pkg/errors"
)

// Resolver maps branch ids to credential sets. It is built once at startup
// and is read-only afterwards, so it is safe for concurrent use.
type Resolver struct {
	branches  map[string]domain.BranchCredentials
	order     []string
	defaultID string
}

// NewResolver validates every branch and fails fast on incomplete credentials.
// An empty defaultID selects the first branch.
func NewResolver(defaultID string, branches []domain.BranchCredentials) (*Resolver, error) {
	if len(branches) == 0 {
		return nil, domain.NewDomainError(domain.ErrorCodeBranchNotSpecified, "no branches configured")
	}

	r := &Resolver{
		branches: make(map[string]domain.BranchCredentials, len(branches)),
	}

	for _, bc := range branches {
		id := strings.TrimSpace(bc.Branch.ID)
		if id == "" {
			return nil, domain.NewDomainError(domain.ErrorCodeBranchNotSpecified, "branch with empty id")
		}
		if _, dup := r.branches[id]; dup {
			return nil, domain.NewDomainError(domain.ErrorCodeBranchNotSpecified,
				fmt.Sprintf("branch %q configured twice", id))
		}
		if missing := bc.Credentials.MissingFields(); len(missing) > 0 {
			return nil, domain.NewDomainError(domain.ErrorCodeBranchIncomplete,
				fmt.Sprintf("branch %q is missing %s", id, strings.Join(missing, ", "))).
				WithDetail("branch", id).
				WithDetail("missing", missing)
		}
		if bc.Branch.Name == "" {
			bc.Branch.Name = id
		}
		bc.Branch.ID = id
		r.branches[id] = bc
		r.order = append(r.order, id)
	}

	if defaultID == "" {
		defaultID = r.order[0]
	}
	if _, ok := r.branches[defaultID]; !ok {
		return nil, domain.NewDomainError(domain.ErrorCodeBranchUnknown,
			fmt.Sprintf("default branch %q is not configured", defaultID))
	}
	r.defaultID = defaultID

	return r, nil
}

// Resolve returns the credential set for a branch; empty selects the default branch
func (r *Resolver) Resolve(branchID string) (domain.BranchCredentials, error) {
	if branchID == "" {
		branchID = r.defaultID
	}
	bc, ok := r.branches[branchID]
	if !ok {
		return domain.BranchCredentials{}, pkgerrors.NewValidationErrorWithCode("branch",
			string(domain.ErrorCodeBranchUnknown), fmt.Sprintf("unknown branch %q", branchID))
	}
	return bc, nil
}

// Has reports whether the branch is configured
func (r *Resolver) Has(branchID string) bool {
	_, ok := r.branches[branchID]
	return ok
}

// Default returns the default branch id
func (r *Resolver) Default() string {
	return r.defaultID
}

// Branches lists configured branches in configuration order, without credentials
func (r *Resolver) Branches() []domain.Branch {
	out := make([]domain.Branch, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.branches[id].Branch)
	}
	return out
}
