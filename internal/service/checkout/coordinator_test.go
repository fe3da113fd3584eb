package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/metrics"
	"storefront-api/internal/payment"
	orderrepo "storefront-api/internal/repository/order"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrders struct {
	placeFn func(ctx context.Context, userID string, lines []orderrepo.SubmissionLine) (int64, error)

	calls     int
	lastLines []orderrepo.SubmissionLine
}

func (s *stubOrders) PlaceOrder(ctx context.Context, userID string, lines []orderrepo.SubmissionLine) (int64, error) {
	s.calls++
	s.lastLines = lines
	return s.placeFn(ctx, userID, lines)
}

func (s *stubOrders) ListByUser(context.Context, string) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrders) GetDetails(context.Context, string, int64) ([]domain.OrderItemDetail, error) {
	return nil, nil
}

type stubCounts struct {
	deleted []string
}

func (s *stubCounts) Delete(_ context.Context, userID string) error {
	s.deleted = append(s.deleted, userID)
	return nil
}

type stubPayments struct {
	intent *payment.Intent
	err    error

	lastAmount int64
}

func (s *stubPayments) CreateIntent(_ context.Context, _ string, amountCents int64) (*payment.Intent, error) {
	s.lastAmount = amountCents
	return s.intent, s.err
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testLines() []domain.CartItemDetail {
	return []domain.CartItemDetail{
		{CartItemID: 1, ProductID: 7, Quantity: 2, PriceCents: 150},
		{CartItemID: 2, ProductID: 9, Quantity: 3, PriceCents: 99},
	}
}

func newTestCoordinator(orders *stubOrders, counts *stubCounts) *Coordinator {
	// A typed nil *stubCounts inside the interface would defeat the
	// coordinator's nil check, so only wire the invalidator when one exists.
	var invalidator countInvalidator
	if counts != nil {
		invalidator = counts
	}
	return NewCoordinator(orders, nil, invalidator, nil, discardLogger(), 5*time.Second)
}

func TestSubmit_Success(t *testing.T) {
	orders := &stubOrders{placeFn: func(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
		return 42, nil
	}}
	counts := &stubCounts{}
	coord := newTestCoordinator(orders, counts)

	res, err := coord.Submit(context.Background(), "user-1", testLines())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, int64(42), res.OrderID)
	assert.Equal(t, "Successfully created an order", res.Message)
	assert.Equal(t, []string{"user-1"}, counts.deleted)
}

func TestSubmit_SucceedsWithoutCountCache(t *testing.T) {
	orders := &stubOrders{placeFn: func(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
		return 11, nil
	}}
	coord := newTestCoordinator(orders, nil)

	res, err := coord.Submit(context.Background(), "user-1", testLines())
	require.NoError(t, err)
	assert.Equal(t, int64(11), res.OrderID)
}

func TestSubmit_SendsSnapshotPrices(t *testing.T) {
	orders := &stubOrders{placeFn: func(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
		return 1, nil
	}}
	coord := newTestCoordinator(orders, nil)

	_, err := coord.Submit(context.Background(), "user-1", testLines())
	require.NoError(t, err)

	// The submitted prices are the ones captured with the snapshot, line for
	// line, never re-read.
	require.Equal(t, []orderrepo.SubmissionLine{
		{ProductID: 7, Quantity: 2, PriceCents: 150},
		{ProductID: 9, Quantity: 3, PriceCents: 99},
	}, orders.lastLines)
}

func TestSubmit_InsufficientStockBySQLState(t *testing.T) {
	orders := &stubOrders{placeFn: func(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
		return 0, &pgconn.PgError{Code: "SK001", Message: "Not enough stock for product id 7"}
	}}
	coord := newTestCoordinator(orders, nil)

	_, err := coord.Submit(context.Background(), "user-1", testLines())

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, FailureInsufficientStock, f.Class)
	assert.Contains(t, f.Reason, "product id 7")
	assert.True(t, f.Retryable())
}

func TestSubmit_InsufficientStockByMessageText(t *testing.T) {
	orders := &stubOrders{placeFn: func(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
		return 0, &pgconn.PgError{Code: "P0001", Message: "Not enough stock for product id 9"}
	}}
	coord := newTestCoordinator(orders, nil)

	_, err := coord.Submit(context.Background(), "user-1", testLines())

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, FailureInsufficientStock, f.Class)
}

func TestSubmit_GenericDatabaseError(t *testing.T) {
	orders := &stubOrders{placeFn: func(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
		return 0, &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
	}}
	coord := newTestCoordinator(orders, nil)

	_, err := coord.Submit(context.Background(), "user-1", testLines())

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, FailureTransaction, f.Class)
	assert.True(t, f.Retryable())
}

func TestSubmit_TimeoutIsNetworkFailure(t *testing.T) {
	orders := &stubOrders{placeFn: func(ctx context.Context, _ string, _ []orderrepo.SubmissionLine) (int64, error) {
		return 0, context.DeadlineExceeded
	}}
	counts := &stubCounts{}
	coord := newTestCoordinator(orders, counts)

	_, err := coord.Submit(context.Background(), "user-1", testLines())

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, FailureNetwork, f.Class)
	assert.Empty(t, counts.deleted, "nothing is invalidated on failure")
}

func TestSubmit_Validation(t *testing.T) {
	orders := &stubOrders{placeFn: func(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
		return 1, nil
	}}
	coord := newTestCoordinator(orders, nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		userID string
		lines  []domain.CartItemDetail
		class  FailureClass
	}{
		{"no user", "", testLines(), FailureAuthentication},
		{"empty cart", "user-1", nil, FailureValidation},
		{"zero quantity", "user-1", []domain.CartItemDetail{{ProductID: 7, Quantity: 0, PriceCents: 100}}, FailureValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := coord.Submit(ctx, tc.userID, tc.lines)
			var f *Failure
			require.ErrorAs(t, err, &f)
			assert.Equal(t, tc.class, f.Class)
		})
	}
	assert.Zero(t, orders.calls, "validation failures never reach the transaction")
}

func TestSubmit_RejectsSecondAttemptInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var startedOnce sync.Once
	orders := &stubOrders{placeFn: func(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
		startedOnce.Do(func() { close(started) })
		<-release
		return 1, nil
	}}
	coord := newTestCoordinator(orders, nil)

	done := make(chan error, 1)
	go func() {
		_, err := coord.Submit(context.Background(), "user-1", testLines())
		done <- err
	}()
	<-started

	_, err := coord.Submit(context.Background(), "user-1", testLines())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)

	// The slot frees once the first attempt resolves.
	_, err = coord.Submit(context.Background(), "user-1", testLines())
	require.NoError(t, err)
}

func TestSubmitPaid_CanceledNeverSubmits(t *testing.T) {
	orders := &stubOrders{placeFn: func(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
		return 1, nil
	}}
	coord := newTestCoordinator(orders, nil)

	for _, status := range []payment.Status{payment.StatusCanceled, payment.StatusFailed, payment.Status("bogus")} {
		_, err := coord.SubmitPaid(context.Background(), "user-1", testLines(), status)
		var f *Failure
		require.ErrorAs(t, err, &f)
		assert.Equal(t, FailureValidation, f.Class)
	}
	assert.Zero(t, orders.calls)
}

func TestSubmitPaid_CompletedPassesThrough(t *testing.T) {
	orders := &stubOrders{placeFn: func(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
		return 7, nil
	}}
	coord := newTestCoordinator(orders, nil)

	res, err := coord.SubmitPaid(context.Background(), "user-1", testLines(), payment.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.OrderID)
}

func TestSubmitPaid_EscalatesFailureAfterCapture(t *testing.T) {
	orders := &stubOrders{placeFn: func(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
		return 0, errors.New("connection reset")
	}}
	coord := newTestCoordinator(orders, nil)

	_, err := coord.SubmitPaid(context.Background(), "user-1", testLines(), payment.StatusCompleted)

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, FailurePostPayment, f.Class)
	assert.False(t, f.Retryable())
	assert.Contains(t, f.Reason, "payment was captured")
}

func TestSubmitPaid_InFlightIsNotEscalated(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	orders := &stubOrders{placeFn: func(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
		close(started)
		<-release
		return 1, nil
	}}
	coord := newTestCoordinator(orders, nil)

	done := make(chan error, 1)
	go func() {
		_, err := coord.Submit(context.Background(), "user-1", testLines())
		done <- err
	}()
	<-started

	// A double tap during payment confirmation is an in-flight rejection, not
	// a post-payment incident.
	_, err := coord.SubmitPaid(context.Background(), "user-1", testLines(), payment.StatusCompleted)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)
}

func submissionCount(m *metrics.Checkout, outcome string) float64 {
	return testutil.ToFloat64(m.Submissions.WithLabelValues(outcome))
}

func TestSubmit_RecordsOneOutcome(t *testing.T) {
	m := metrics.NewCheckout(prometheus.NewRegistry())
	orders := &stubOrders{placeFn: func(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
		return 0, &pgconn.PgError{Code: "57P01", Message: "terminating connection"}
	}}
	coord := NewCoordinator(orders, nil, nil, m, discardLogger(), 5*time.Second)

	_, err := coord.Submit(context.Background(), "user-1", testLines())
	require.Error(t, err)

	assert.Equal(t, 1.0, submissionCount(m, string(FailureTransaction)))
	assert.Equal(t, 0.0, submissionCount(m, "success"))
}

func TestSubmitPaid_RecordsOneOutcome(t *testing.T) {
	m := metrics.NewCheckout(prometheus.NewRegistry())
	orders := &stubOrders{placeFn: func(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
		return 0, &pgconn.PgError{Code: "57P01", Message: "terminating connection"}
	}}
	coord := NewCoordinator(orders, nil, nil, m, discardLogger(), 5*time.Second)

	_, err := coord.SubmitPaid(context.Background(), "user-1", testLines(), payment.StatusCompleted)
	require.Error(t, err)

	// One user attempt, one counted outcome: the escalated class only.
	assert.Equal(t, 1.0, submissionCount(m, string(FailurePostPayment)))
	assert.Equal(t, 0.0, submissionCount(m, string(FailureTransaction)))
}

func TestSubmitPaid_RecordsSuccessOnce(t *testing.T) {
	m := metrics.NewCheckout(prometheus.NewRegistry())
	orders := &stubOrders{placeFn: func(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
		return 5, nil
	}}
	coord := NewCoordinator(orders, nil, nil, m, discardLogger(), 5*time.Second)

	_, err := coord.SubmitPaid(context.Background(), "user-1", testLines(), payment.StatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, 1.0, submissionCount(m, "success"))
}

func TestStartPayment(t *testing.T) {
	payments := &stubPayments{intent: &payment.Intent{ID: "pi_1", ClientSecret: "cs_1", Currency: "usd"}}
	coord := NewCoordinator(&stubOrders{}, payments, nil, nil, discardLogger(), time.Second)

	_, err := coord.StartPayment(context.Background(), "", testLines())
	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, FailureAuthentication, f.Class)

	_, err = coord.StartPayment(context.Background(), "user-1", nil)
	require.ErrorAs(t, err, &f)
	assert.Equal(t, FailureValidation, f.Class)

	intent, err := coord.StartPayment(context.Background(), "user-1", testLines())
	require.NoError(t, err)
	assert.Equal(t, "cs_1", intent.ClientSecret)
	assert.Equal(t, int64(2*150+3*99), payments.lastAmount)
}

func TestStartPayment_ProcessorDown(t *testing.T) {
	payments := &stubPayments{err: errors.New("dial tcp: connection refused")}
	coord := NewCoordinator(&stubOrders{}, payments, nil, nil, discardLogger(), time.Second)

	_, err := coord.StartPayment(context.Background(), "user-1", testLines())

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, FailureNetwork, f.Class)
}
