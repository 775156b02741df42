package ports

import (
	"context"

	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/kevin07696/gym-admin/internal/services/branch"
)

// BranchSelection is the persisted branch the admin UI works against
type BranchSelection interface {
	Current(ctx context.Context) (string, error)
	Select(ctx context.Context, branchID string) (domain.Branch, error)
	Branches() []domain.Branch
}

var _ BranchSelection = (*branch.Selection)(nil)
