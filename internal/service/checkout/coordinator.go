package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/metrics"
	"storefront-api/internal/payment"
	orderrepo "storefront-api/internal/repository/order"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrSubmissionInFlight is returned when a user's previous submission has not
// resolved yet. The attempt is rejected, not queued.
var ErrSubmissionInFlight = errors.New("an order submission is already in flight")

// insufficientStockCode is the SQLSTATE raised by place_order_and_deduct_stock
// when a line exceeds available stock.
const insufficientStockCode = "SK001"

type orderPlacer interface {
	PlaceOrder(ctx context.Context, userID string, lines []orderrepo.SubmissionLine) (int64, error)
}

type countInvalidator interface {
	Delete(ctx context.Context, userID string) error
}

// Coordinator converts a priced cart snapshot into a durable order by
// invoking the atomic stock-deduction transaction exactly once per
// user-initiated submission and mapping the outcome onto a small failure
// taxonomy. It never mutates local state on failure and never retries on its
// own.
type Coordinator struct {
	orders   orderPlacer
	payments payment.Client
	counts   countInvalidator
	metrics  *metrics.Checkout
	logger   *log.Logger
	timeout  time.Duration

	inflight sync.Map // userID -> struct{}
}

func NewCoordinator(
	orders orderrepo.Repository,
	payments payment.Client,
	counts countInvalidator,
	m *metrics.Checkout,
	logger *log.Logger,
	timeout time.Duration,
) *Coordinator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Coordinator{
		orders:   orders,
		payments: payments,
		counts:   counts,
		metrics:  m,
		logger:   logger,
		timeout:  timeout,
	}
}

// StartPayment creates a payment intent for the snapshot's total. The
// returned client secret drives the payment sheet on the device; the order is
// only submitted after the sheet reports completion.
func (c *Coordinator) StartPayment(ctx context.Context, userID string, lines []domain.CartItemDetail) (*payment.Intent, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &Failure{Class: FailureAuthentication, Reason: "not signed in"}
	}
	if len(lines) == 0 {
		return nil, &Failure{Class: FailureValidation, Reason: "cart is empty"}
	}
	if c.payments == nil {
		return nil, &Failure{Class: FailureValidation, Reason: "payments are not configured"}
	}

	var total int64
	for _, l := range lines {
		total += l.PriceCents * int64(l.Quantity)
	}

	intent, err := c.payments.CreateIntent(ctx, userID, total)
	if err != nil {
		c.logger.Printf("checkout: create intent user_id=%s error=%v", userID, err)
		return nil, &Failure{Class: FailureNetwork, Reason: "could not reach the payment processor"}
	}
	c.metrics.ObservePaymentIntent()
	return intent, nil
}

// Submit performs exactly one submission attempt for the given snapshot.
//
// There is no retry and no idempotency token: if the call times out the
// transaction either committed or it didn't, and manual resubmission is the
// accepted recovery path, with a duplicate order on a false timeout an
// accepted, documented risk.
func (c *Coordinator) Submit(ctx context.Context, userID string, lines []domain.CartItemDetail) (*Result, error) {
	return c.submit(ctx, userID, lines, true)
}

// submit is the single attempt path. One metric outcome is recorded per
// attempt: callers that reinterpret the result (SubmitPaid) pass record=false
// and record the final outcome themselves.
func (c *Coordinator) submit(ctx context.Context, userID string, lines []domain.CartItemDetail, record bool) (*Result, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &Failure{Class: FailureAuthentication, Reason: "not signed in"}
	}
	if len(lines) == 0 {
		return nil, &Failure{Class: FailureValidation, Reason: "cart is empty"}
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, &Failure{Class: FailureValidation, Reason: "quantity must be positive"}
		}
	}

	// One submission in flight per user; a second tap is rejected while the
	// first resolves.
	if _, loaded := c.inflight.LoadOrStore(userID, struct{}{}); loaded {
		return nil, ErrSubmissionInFlight
	}
	defer c.inflight.Delete(userID)

	submitCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	orderID, err := c.orders.PlaceOrder(submitCtx, userID, toSubmissionLines(lines))
	if err != nil {
		f := classify(err)
		if record {
			c.metrics.ObserveSubmission(string(f.Class))
		}
		c.logger.Printf("checkout: submit user_id=%s class=%s reason=%q", userID, f.Class, f.Reason)
		return nil, f
	}

	// The transaction already cleared the cart server-side; only the cached
	// badge count needs dropping.
	if c.counts != nil {
		if err := c.counts.Delete(ctx, userID); err != nil {
			c.logger.Printf("checkout: count invalidate user_id=%s error=%v", userID, err)
		}
	}

	if record {
		c.metrics.ObserveSubmission("success")
	}
	c.logger.Printf("checkout: submit user_id=%s order_id=%d lines=%d", userID, orderID, len(lines))
	return &Result{OrderID: orderID, Message: "Successfully created an order"}, nil
}

// SubmitPaid gates Submit on an explicit payment acknowledgement. A canceled
// or failed payment short-circuits before the transaction is ever invoked;
// any failure after a completed payment is escalated to FailurePostPayment,
// since blind resubmission could double-create the order.
func (c *Coordinator) SubmitPaid(ctx context.Context, userID string, lines []domain.CartItemDetail, status payment.Status) (*Result, error) {
	switch status {
	case payment.StatusCompleted:
	case payment.StatusCanceled:
		return nil, &Failure{Class: FailureValidation, Reason: "payment was canceled; order not submitted"}
	case payment.StatusFailed:
		return nil, &Failure{Class: FailureValidation, Reason: "payment failed; order not submitted"}
	default:
		return nil, &Failure{Class: FailureValidation, Reason: "unknown payment status"}
	}

	res, err := c.submit(ctx, userID, lines, false)
	if err != nil {
		if errors.Is(err, ErrSubmissionInFlight) {
			return nil, err
		}
		reason := err.Error()
		var f *Failure
		if errors.As(err, &f) {
			reason = f.Reason
		}
		c.metrics.ObserveSubmission(string(FailurePostPayment))
		return nil, &Failure{
			Class:  FailurePostPayment,
			Reason: "payment was captured but the order could not be recorded: " + reason,
		}
	}
	c.metrics.ObserveSubmission("success")
	return res, nil
}

func toSubmissionLines(lines []domain.CartItemDetail) []orderrepo.SubmissionLine {
	out := make([]orderrepo.SubmissionLine, len(lines))
	for i, l := range lines {
		out[i] = orderrepo.SubmissionLine{
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			PriceCents: l.PriceCents,
		}
	}
	return out
}

// classify maps a transaction error onto the failure taxonomy. Insufficient
// stock is recognized by SQLSTATE first and by the message text the stored
// function has always used as a fallback.
func classify(err error) *Failure {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == insufficientStockCode || strings.Contains(pgErr.Message, "Not enough stock") {
			return &Failure{Class: FailureInsufficientStock, Reason: pgErr.Message}
		}
		return &Failure{Class: FailureTransaction, Reason: pgErr.Message}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Failure{Class: FailureNetwork, Reason: "order submission timed out; the order may or may not have been recorded"}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &Failure{Class: FailureNetwork, Reason: err.Error()}
	}

	return &Failure{Class: FailureTransaction, Reason: err.Error()}
}
