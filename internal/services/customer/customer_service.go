package customer

import (
	"context"
	"fmt"
	"strings"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/domain"
	pkgerrors "github.com/kevin07696/gym-admin/pkg/errors"
	"github.com/kevin07696/gym-admin/pkg/observability"
	"golang.org/x/sync/errgroup"
)

// DefaultTransferConcurrency bounds parallel payment-method links during a transfer
const DefaultTransferConcurrency = 4

// Service handles members and their stored payment methods
type Service struct {
	gateway             ports.CustomerGateway
	logger              ports.Logger
	transferConcurrency int
}

// NewService creates a new customer service
func NewService(gateway ports.CustomerGateway, logger ports.Logger) *Service {
	return &Service{
		gateway:             gateway,
		logger:              logger,
		transferConcurrency: DefaultTransferConcurrency,
	}
}

// TransferFailure is a payment method that could not be linked in the target branch
type TransferFailure struct {
	Token string `json:"token"`
	Error string `json:"error"`
}

// TransferResult reports what a transfer achieved. The member is created in the
// target branch even when some payment methods fail to link.
type TransferResult struct {
	NewCustomerID string            `json:"newCustomerId"`
	Linked        []string          `json:"linked"`
	Failed        []TransferFailure `json:"failed"`
}

// ListMembers lists all members of a branch
func (s *Service) ListMembers(ctx context.Context, branchID string) ([]domain.Member, error) {
	list, err := s.gateway.ListCustomers(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]domain.Member, 0, len(list.Data))
	for _, c := range list.Data {
		members = append(members, ToMember(c))
	}
	return members, nil
}

// GetMember fetches one member
func (s *Service) GetMember(ctx context.Context, branchID, customerID string) (*domain.Member, error) {
	if err := requireID("customerId", customerID); err != nil {
		return nil, err
	}

	c, err := s.gateway.GetCustomer(ctx, branchID, customerID)
	if err != nil {
		return nil, fmt.Errorf("get member %s: %w", customerID, err)
	}
	m := ToMember(*c)
	return &m, nil
}

// CreateMember registers a new member with the provider
func (s *Service) CreateMember(ctx context.Context, branchID string, nm domain.NewMember) (*domain.Member, error) {
	if err := validateNewMember(nm); err != nil {
		return nil, err
	}

	created, err := s.gateway.CreateCustomer(ctx, branchID, ToCustomer(nm))
	if err != nil {
		s.logger.Error("Failed to create member",
			ports.BranchID(branchID),
			ports.Err(err),
		)
		return nil, fmt.Errorf("create member: %w", err)
	}

	m := ToMember(*created)
	s.logger.Info("Member created",
		ports.CustomerID(m.ID),
		ports.BranchID(branchID),
	)
	return &m, nil
}

// ListPaymentMethods lists a member's normalized payment methods
func (s *Service) ListPaymentMethods(ctx context.Context, branchID, customerID string) ([]domain.PaymentMethod, error) {
	if err := requireID("customerId", customerID); err != nil {
		return nil, err
	}

	list, err := s.gateway.GetCustomerPaymentMethods(ctx, branchID, customerID)
	if err != nil {
		return nil, fmt.Errorf("list payment methods for %s: %w", customerID, err)
	}
	return ToPaymentMethods(list), nil
}

// LinkPaymentMethod attaches a tokenised payment method to a member
func (s *Service) LinkPaymentMethod(ctx context.Context, branchID, customerID, token string, primary bool) (*domain.PaymentMethod, error) {
	if err := requireID("customerId", customerID); err != nil {
		return nil, err
	}
	if err := requireID("paymentMethodToken", token); err != nil {
		return nil, err
	}

	rec, err := s.gateway.LinkPaymentMethod(ctx, branchID, customerID, token, primary)
	if err != nil {
		return nil, fmt.Errorf("link payment method: %w", err)
	}
	pm := domain.NewPaymentMethod(rec.PaymentMethodToken, rec.Union(), rec.Primary, rec.Valid)
	return &pm, nil
}

// ReplacePaymentMethod swaps a member's payment method for a new token
func (s *Service) ReplacePaymentMethod(ctx context.Context, branchID, customerID, oldToken, newToken string) (*domain.PaymentMethod, error) {
	if err := requireID("customerId", customerID); err != nil {
		return nil, err
	}
	if err := requireID("paymentMethodToken", oldToken); err != nil {
		return nil, err
	}
	if err := requireID("newPaymentMethodToken", newToken); err != nil {
		return nil, err
	}

	rec, err := s.gateway.ReplacePaymentMethod(ctx, branchID, customerID, oldToken, newToken)
	if err != nil {
		return nil, fmt.Errorf("replace payment method: %w", err)
	}
	pm := domain.NewPaymentMethod(rec.PaymentMethodToken, rec.Union(), rec.Primary, rec.Valid)
	return &pm, nil
}

// DeletePaymentMethod removes a payment method from a member
func (s *Service) DeletePaymentMethod(ctx context.Context, branchID, customerID, token string) error {
	if err := requireID("customerId", customerID); err != nil {
		return err
	}
	if err := requireID("paymentMethodToken", token); err != nil {
		return err
	}

	if err := s.gateway.DeletePaymentMethod(ctx, branchID, customerID, token); err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}
	return nil
}

// TransferMember copies a member and their payment methods from one branch to another.
// Link failures are collected per token rather than aborting the transfer.
func (s *Service) TransferMember(ctx context.Context, customerID, fromBranch, toBranch string) (*TransferResult, error) {
	if err := requireID("customerId", customerID); err != nil {
		return nil, err
	}
	if err := requireID("toBranch", toBranch); err != nil {
		return nil, err
	}
	if fromBranch == toBranch {
		return nil, pkgerrors.NewValidationError("toBranch", "target branch must differ from the source branch")
	}

	source, err := s.gateway.GetCustomer(ctx, fromBranch, customerID)
	if err != nil {
		observability.RecordMemberTransfer(fromBranch, toBranch, "failed", 0, 0)
		return nil, fmt.Errorf("read member in %q: %w", fromBranch, err)
	}
	methods, err := s.gateway.GetCustomerPaymentMethods(ctx, fromBranch, customerID)
	if err != nil {
		observability.RecordMemberTransfer(fromBranch, toBranch, "failed", 0, 0)
		return nil, fmt.Errorf("read payment methods in %q: %w", fromBranch, err)
	}

	created, err := s.gateway.CreateCustomer(ctx, toBranch, ToCustomer(toNewMember(ToMember(*source))))
	if err != nil {
		observability.RecordMemberTransfer(fromBranch, toBranch, "failed", 0, 0)
		return nil, fmt.Errorf("create member in %q: %w", toBranch, err)
	}

	result := &TransferResult{
		NewCustomerID: created.ID,
		Linked:        []string{},
		Failed:        []TransferFailure{},
	}

	outcomes := make([]error, len(methods.Data))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.transferConcurrency)
	for i, rec := range methods.Data {
		i, rec := i, rec
		g.Go(func() error {
			_, linkErr := s.gateway.LinkPaymentMethod(gctx, toBranch, created.ID, rec.PaymentMethodToken, rec.Primary)
			outcomes[i] = linkErr
			return nil
		})
	}
	_ = g.Wait()

	for i, rec := range methods.Data {
		if outcomes[i] != nil {
			result.Failed = append(result.Failed, TransferFailure{Token: rec.PaymentMethodToken, Error: outcomes[i].Error()})
			continue
		}
		result.Linked = append(result.Linked, rec.PaymentMethodToken)
	}

	status := "success"
	if len(result.Failed) > 0 {
		status = "partial"
		s.logger.Warn("Member transferred with unlinked payment methods",
			ports.CustomerID(customerID),
			ports.String("new_customer_id", created.ID),
			ports.Int("failed", len(result.Failed)),
		)
	}
	observability.RecordMemberTransfer(fromBranch, toBranch, status, len(result.Linked), len(result.Failed))

	s.logger.Info("Member transferred",
		ports.CustomerID(customerID),
		ports.String("new_customer_id", created.ID),
		ports.String("from_branch", fromBranch),
		ports.String("to_branch", toBranch),
		ports.Int("linked", len(result.Linked)),
	)
	return result, nil
}

func validateNewMember(nm domain.NewMember) error {
	if strings.TrimSpace(nm.FirstName) == "" {
		return pkgerrors.NewValidationErrorWithCode("firstName", string(domain.ErrorCodeValidationMissingField), "first name is required")
	}
	if strings.TrimSpace(nm.LastName) == "" {
		return pkgerrors.NewValidationErrorWithCode("lastName", string(domain.ErrorCodeValidationMissingField), "last name is required")
	}
	email := strings.TrimSpace(nm.Email)
	if email == "" {
		return pkgerrors.NewValidationErrorWithCode("email", string(domain.ErrorCodeValidationMissingField), "email is required")
	}
	if at := strings.Index(email, "@"); at <= 0 || at == len(email)-1 {
		return pkgerrors.NewValidationError("email", "email address is not valid")
	}
	return nil
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return pkgerrors.NewValidationErrorWithCode(field, string(domain.ErrorCodeValidationMissingField), field+" is required")
	}
	return nil
}
