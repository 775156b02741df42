package invoice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/domain"
	pkgerrors "github.com/kevin07696/gym-admin/pkg/errors"
	"github.com/kevin07696/gym-admin/test/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService() (*Service, *mocks.MockInvoiceGateway) {
	gateway := mocks.NewMockInvoiceGateway()
	return NewService(gateway, 0, mocks.NewMockLogger()), gateway
}

func ref(id string, status domain.InvoiceStatus, amount string) domain.InvoiceRef {
	return domain.InvoiceRef{ID: id, Status: status, Amount: decimal.RequireFromString(amount)}
}

func requireValidationCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	vErr, ok := pkgerrors.AsValidationError(err)
	require.True(t, ok, "expected ValidationError, got %T", err)
	assert.Equal(t, string(code), vErr.Code)
}

func TestRetry_Success(t *testing.T) {
	svc, gateway := setupService()
	var gotToken string
	gateway.RetryPaymentFunc = func(ctx context.Context, branchID, invoiceID, token string) (*ports.Invoice, error) {
		gotToken = token
		return &ports.Invoice{ID: invoiceID, Status: "PAID", Amount: money("99")}, nil
	}

	inv, err := svc.Retry(context.Background(), "main", ref("inv_1", domain.InvoiceStatusFailed, "99"), "pm_1")

	require.NoError(t, err)
	assert.Equal(t, "pm_1", gotToken)
	assert.Equal(t, domain.InvoiceStatusPaid, inv.Status)
	assert.Equal(t, "$99.00", inv.Amount)
}

func TestRetry_RequiresPaymentMethod(t *testing.T) {
	svc, gateway := setupService()

	_, err := svc.Retry(context.Background(), "main", ref("inv_1", domain.InvoiceStatusFailed, "99"), " ")

	requireValidationCode(t, err, domain.ErrorCodePMRequired)
	assert.Equal(t, 0, gateway.TotalCalls())
}

func TestInvoiceActions_InvalidStateNeverReachesProvider(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		status domain.InvoiceStatus
		run    func(svc *Service, r domain.InvoiceRef) error
	}{
		{"retry paid", domain.InvoiceStatusPaid, func(svc *Service, r domain.InvoiceRef) error {
			_, err := svc.Retry(ctx, "main", r, "pm_1")
			return err
		}},
		{"refund failed", domain.InvoiceStatusFailed, func(svc *Service, r domain.InvoiceRef) error {
			_, err := svc.Refund(ctx, "main", r, nil)
			return err
		}},
		{"refund pending", domain.InvoiceStatusPending, func(svc *Service, r domain.InvoiceRef) error {
			_, err := svc.Refund(ctx, "main", r, nil)
			return err
		}},
		{"write off paid", domain.InvoiceStatusPaid, func(svc *Service, r domain.InvoiceRef) error {
			_, err := svc.WriteOff(ctx, "main", r)
			return err
		}},
		{"write off refunded", domain.InvoiceStatusRefunded, func(svc *Service, r domain.InvoiceRef) error {
			_, err := svc.WriteOff(ctx, "main", r)
			return err
		}},
		{"record payment on paid", domain.InvoiceStatusPaid, func(svc *Service, r domain.InvoiceRef) error {
			_, err := svc.RecordExternalPayment(ctx, "main", r, domain.ExternalPaymentCash)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, gateway := setupService()

			err := tt.run(svc, ref("inv_1", tt.status, "99"))

			requireValidationCode(t, err, domain.ErrorCodeInvoiceInvalidState)
			assert.Equal(t, 0, gateway.TotalCalls())
		})
	}
}

func TestRetry_ConcurrentCallsShareOneUpstreamCall(t *testing.T) {
	svc, gateway := setupService()
	release := make(chan struct{})
	gateway.RetryPaymentFunc = func(ctx context.Context, branchID, invoiceID, token string) (*ports.Invoice, error) {
		<-release
		return &ports.Invoice{ID: invoiceID, Status: "PENDING"}, nil
	}

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Retry(context.Background(), "main", ref("inv_1", domain.InvoiceStatusPastDue, "20"), "pm_1")
			errs <- err
		}()
	}

	// let every goroutine join the in-flight call before releasing it
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, gateway.CallCount("RetryPayment"))
}

func TestRetry_CancelledCallerDoesNotFailSharedCall(t *testing.T) {
	svc, gateway := setupService()
	started := make(chan struct{})
	release := make(chan struct{})
	upstreamErr := make(chan error, 1)
	gateway.RetryPaymentFunc = func(ctx context.Context, branchID, invoiceID, token string) (*ports.Invoice, error) {
		close(started)
		<-release
		upstreamErr <- ctx.Err()
		return &ports.Invoice{ID: invoiceID, Status: "PENDING"}, nil
	}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Retry(firstCtx, "main", ref("inv_1", domain.InvoiceStatusPastDue, "20"), "pm_1")
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	go func() {
		_, err := svc.Retry(context.Background(), "main", ref("inv_1", domain.InvoiceStatusPastDue, "20"), "pm_1")
		secondErr <- err
	}()
	// let the second caller join the in-flight call
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	assert.NoError(t, <-secondErr)
	assert.NoError(t, <-upstreamErr, "upstream call must not see the first caller's cancellation")
	assert.Equal(t, 1, gateway.CallCount("RetryPayment"))
}

func TestRefund_FullAmountByDefault(t *testing.T) {
	svc, gateway := setupService()
	var got decimal.Decimal
	gateway.RefundInvoiceFunc = func(ctx context.Context, branchID, invoiceID string, amount decimal.Decimal) (*ports.Invoice, error) {
		got = amount
		return &ports.Invoice{ID: invoiceID, Status: "REFUNDED", Amount: money("99")}, nil
	}

	inv, err := svc.Refund(context.Background(), "main", ref("inv_1", domain.InvoiceStatusPaid, "99"), nil)

	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("99")))
	assert.Equal(t, domain.InvoiceStatusRefunded, inv.Status)
}

func TestRefund_Partial(t *testing.T) {
	svc, gateway := setupService()
	partial := decimal.RequireFromString("25.50")
	var got decimal.Decimal
	gateway.RefundInvoiceFunc = func(ctx context.Context, branchID, invoiceID string, amount decimal.Decimal) (*ports.Invoice, error) {
		got = amount
		return &ports.Invoice{ID: invoiceID, Status: "PAID"}, nil
	}

	_, err := svc.Refund(context.Background(), "main", ref("inv_1", domain.InvoiceStatusPaid, "99"), &partial)

	require.NoError(t, err)
	assert.True(t, got.Equal(partial))
}

func TestRefund_RejectsInvalidAmounts(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		code   domain.ErrorCode
	}{
		{"exceeds invoice", "100", domain.ErrorCodeRefundExceedsAmount},
		{"zero", "0", domain.ErrorCodeValidationAmountInvalid},
		{"negative", "-5", domain.ErrorCodeValidationAmountInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, gateway := setupService()
			amount := decimal.RequireFromString(tt.amount)

			_, err := svc.Refund(context.Background(), "main", ref("inv_1", domain.InvoiceStatusPaid, "99"), &amount)

			requireValidationCode(t, err, tt.code)
			assert.Equal(t, 0, gateway.TotalCalls())
		})
	}
}

func TestRefund_UpstreamErrorIsWrapped(t *testing.T) {
	svc, gateway := setupService()
	gateway.RefundInvoiceFunc = func(ctx context.Context, branchID, invoiceID string, amount decimal.Decimal) (*ports.Invoice, error) {
		return nil, pkgerrors.NewUpstreamError(422, `{"code":"REFUND_WINDOW_CLOSED","message":"too late"}`)
	}

	_, err := svc.Refund(context.Background(), "main", ref("inv_1", domain.InvoiceStatusPaid, "99"), nil)

	require.Error(t, err)
	upErr, ok := pkgerrors.AsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, 422, upErr.StatusCode)
}

func TestWriteOff_Outstanding(t *testing.T) {
	for _, status := range []domain.InvoiceStatus{domain.InvoiceStatusFailed, domain.InvoiceStatusPastDue, domain.InvoiceStatusUnpaid} {
		t.Run(string(status), func(t *testing.T) {
			svc, gateway := setupService()

			inv, err := svc.WriteOff(context.Background(), "main", ref("inv_1", status, "10"))

			require.NoError(t, err)
			assert.Equal(t, domain.InvoiceStatusWrittenOff, inv.Status)
			assert.Equal(t, 1, gateway.CallCount("WriteOffInvoice"))
		})
	}
}

func TestRecordExternalPayment(t *testing.T) {
	svc, gateway := setupService()
	var got domain.ExternalPaymentMethod
	gateway.RecordExternalPaymentFunc = func(ctx context.Context, branchID, invoiceID string, method domain.ExternalPaymentMethod) (*ports.Invoice, error) {
		got = method
		return &ports.Invoice{ID: invoiceID, Status: "PAID"}, nil
	}

	inv, err := svc.RecordExternalPayment(context.Background(), "main", ref("inv_1", domain.InvoiceStatusUnpaid, "10"), domain.ExternalPaymentCheque)

	require.NoError(t, err)
	assert.Equal(t, domain.ExternalPaymentCheque, got)
	assert.Equal(t, domain.InvoiceStatusPaid, inv.Status)
}

func TestRecordExternalPayment_UnknownMethod(t *testing.T) {
	svc, gateway := setupService()

	_, err := svc.RecordExternalPayment(context.Background(), "main", ref("inv_1", domain.InvoiceStatusUnpaid, "10"), "bitcoin")

	require.Error(t, err)
	_, ok := pkgerrors.AsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, 0, gateway.TotalCalls())
}

func TestCreateOnDemand(t *testing.T) {
	svc, gateway := setupService()
	var got *ports.CreateInvoiceRequest
	gateway.CreateInvoiceFunc = func(ctx context.Context, branchID string, req *ports.CreateInvoiceRequest) (*ports.Invoice, error) {
		got = req
		return &ports.Invoice{ID: "inv_9", CustomerID: req.CustomerID, Status: "PAID", Amount: money("35")}, nil
	}

	inv, err := svc.CreateOnDemand(context.Background(), "main", CreateRequest{
		CustomerID:         "cus_1",
		CustomerName:       "Jane Doe",
		PaymentMethodToken: "pm_1",
		Items: []domain.NewInvoiceLine{
			{Description: "PT session", Amount: decimal.RequireFromString("35")},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "pm_1", got.PaymentMethodToken)
	assert.Equal(t, "inv_9", inv.ID)
	assert.Equal(t, "Jane Doe", inv.Member)
	assert.Equal(t, "$35.00", inv.Amount)
}

func TestCreateOnDemand_Validation(t *testing.T) {
	line := []domain.NewInvoiceLine{{Description: "PT", Amount: decimal.RequireFromString("10")}}

	tests := []struct {
		name string
		req  CreateRequest
		code domain.ErrorCode
	}{
		{"no customer", CreateRequest{PaymentMethodToken: "pm_1", Items: line}, domain.ErrorCodeValidationMissingField},
		{"no items", CreateRequest{CustomerID: "cus_1", PaymentMethodToken: "pm_1"}, domain.ErrorCodeValidationMissingField},
		{"no payment method", CreateRequest{CustomerID: "cus_1", Items: line}, domain.ErrorCodePMRequired},
		{"zero line", CreateRequest{CustomerID: "cus_1", PaymentMethodToken: "pm_1", Items: []domain.NewInvoiceLine{
			{Description: "PT", Amount: decimal.Zero},
		}}, domain.ErrorCodeValidationAmountInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, gateway := setupService()

			_, err := svc.CreateOnDemand(context.Background(), "main", tt.req)

			requireValidationCode(t, err, tt.code)
			assert.Equal(t, 0, gateway.TotalCalls())
		})
	}
}

func TestCreateCheckout(t *testing.T) {
	svc, _ := setupService()

	checkout, err := svc.CreateCheckout(context.Background(), "main", CheckoutRequest{
		Amount:      decimal.RequireFromString("49.95"),
		Description: "Casual visit",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/chk_1", checkout.URL)
}

func TestCreateCheckout_RejectsBadRedirect(t *testing.T) {
	svc, gateway := setupService()
	gateway.CreateCheckoutFunc = func(ctx context.Context, branchID string, req *ports.CheckoutRequest) (*ports.CheckoutSession, error) {
		return &ports.CheckoutSession{ID: "chk_1", URL: "/relative/path"}, nil
	}

	_, err := svc.CreateCheckout(context.Background(), "main", CheckoutRequest{Amount: decimal.RequireFromString("10")})

	requireValidationCode(t, err, domain.ErrorCodeCheckoutURLInvalid)
}

func TestValidateRedirectURL(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"https://pay.example.com/s/1", true},
		{"http://localhost:8080/pay", true},
		{"", false},
		{"not a url", false},
		{"javascript:alert(1)", false},
		{"ftp://files.example.com/x", false},
		{"https://", false},
		{"//pay.example.com/s/1", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateRedirectURL(tt.url)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCreateTerminal_ReadsInvoiceAfterWait(t *testing.T) {
	svc, gateway := setupService()
	gateway.GetInvoiceFunc = func(ctx context.Context, branchID, invoiceID string) (*ports.Invoice, error) {
		return &ports.Invoice{ID: invoiceID, Status: "PAID", Amount: money("12")}, nil
	}

	inv, err := svc.CreateTerminal(context.Background(), "main", CreateRequest{
		CustomerID: "cus_1",
		TerminalID: "term_1",
		Items:      []domain.NewInvoiceLine{{Description: "Shake", Amount: decimal.RequireFromString("12")}},
	})

	require.NoError(t, err)
	assert.Equal(t, "inv_term", inv.ID)
	assert.Equal(t, domain.InvoiceStatusPaid, inv.Status)
	assert.Equal(t, 1, gateway.CallCount("CreateTerminalInvoice"))
	assert.Equal(t, 1, gateway.CallCount("GetInvoice"))
}

func TestCreateTerminal_CancelledWhileWaiting(t *testing.T) {
	gateway := mocks.NewMockInvoiceGateway()
	svc := NewService(gateway, time.Hour, mocks.NewMockLogger())

	ctx, cancel := context.WithCancel(context.Background())
	gateway.CreateTerminalInvoiceFunc = func(ctx context.Context, branchID string, req *ports.TerminalInvoiceRequest) (*ports.Invoice, error) {
		cancel()
		return &ports.Invoice{ID: "inv_term"}, nil
	}

	_, err := svc.CreateTerminal(ctx, "main", CreateRequest{
		CustomerID: "cus_1",
		Items:      []domain.NewInvoiceLine{{Description: "Shake", Amount: decimal.RequireFromString("12")}},
	})

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, gateway.CallCount("GetInvoice"))
}

func TestListInvoices_PassesCustomerName(t *testing.T) {
	svc, gateway := setupService()
	gateway.ListInvoicesFunc = func(ctx context.Context, branchID, customerID string) (*ports.InvoiceList, error) {
		assert.Equal(t, "cus_1", customerID)
		return &ports.InvoiceList{Data: []ports.Invoice{{ID: "inv_1"}, {ID: "inv_2", CustomerName: "Provider Name"}}}, nil
	}
	name := "Jane Doe"

	invoices, err := svc.ListInvoices(context.Background(), "main", "cus_1", &name)

	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "Jane Doe", invoices[0].Member)
	assert.Equal(t, "Jane Doe", invoices[1].Member)
}

func TestGetInvoice_RequiresID(t *testing.T) {
	svc, gateway := setupService()

	_, err := svc.GetInvoice(context.Background(), "main", "")

	requireValidationCode(t, err, domain.ErrorCodeValidationMissingField)
	assert.Equal(t, 0, gateway.TotalCalls())
}
