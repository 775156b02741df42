package ports

import (
	"context"

	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/kevin07696/gym-admin/internal/services/customer"
)

// CustomerService defines the business logic interface for members and their payment methods
type CustomerService interface {
	ListMembers(ctx context.Context, branchID string) ([]domain.Member, error)
	GetMember(ctx context.Context, branchID, customerID string) (*domain.Member, error)
	CreateMember(ctx context.Context, branchID string, nm domain.NewMember) (*domain.Member, error)

	ListPaymentMethods(ctx context.Context, branchID, customerID string) ([]domain.PaymentMethod, error)
	LinkPaymentMethod(ctx context.Context, branchID, customerID, token string, primary bool) (*domain.PaymentMethod, error)
	ReplacePaymentMethod(ctx context.Context, branchID, customerID, oldToken, newToken string) (*domain.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, branchID, customerID, token string) error

	TransferMember(ctx context.Context, customerID, fromBranch, toBranch string) (*customer.TransferResult, error)
}

var _ CustomerService = (*customer.Service)(nil)
