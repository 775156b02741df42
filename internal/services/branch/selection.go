package branch

import (
	"context"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/adapters/store"
	"github.com/kevin07696/gym-admin/internal/domain"
)

// SelectedBranchKey is the flat store key holding the persisted branch selection
const SelectedBranchKey = "selectedBranch"

// Selection persists which branch the admin UI is working against
type Selection struct {
	resolver *Resolver
	store    ports.FlatStore
	logger   ports.Logger
}

// NewSelection creates a branch selection backed by the flat store
func NewSelection(resolver *Resolver, flatStore ports.FlatStore, logger ports.Logger) *Selection {
	return &Selection{
		resolver: resolver,
		store:    flatStore,
		logger:   logger,
	}
}

// Current returns the persisted branch, or the default when nothing valid is stored
func (s *Selection) Current(ctx context.Context) (string, error) {
	id, ok, err := store.Get(ctx, s.store, SelectedBranchKey)
	if err != nil {
		return "", domain.WrapError(domain.ErrorCodeStoreUnavailable, "failed to read branch selection", err)
	}
	if !ok || !s.resolver.Has(id) {
		return s.resolver.Default(), nil
	}
	return id, nil
}

// Select validates and persists the branch selection
func (s *Selection) Select(ctx context.Context, branchID string) (domain.Branch, error) {
	bc, err := s.resolver.Resolve(branchID)
	if err != nil {
		return domain.Branch{}, err
	}
	if branchID == "" {
		branchID = bc.Branch.ID
	}

	if err := store.Set(ctx, s.store, SelectedBranchKey, branchID); err != nil {
		return domain.Branch{}, domain.WrapError(domain.ErrorCodeStoreUnavailable, "failed to persist branch selection", err)
	}

	s.logger.Info("Branch selected", ports.BranchID(branchID))
	return bc.Branch, nil
}

// Branches lists configured branches
func (s *Selection) Branches() []domain.Branch {
	return s.resolver.Branches()
}
