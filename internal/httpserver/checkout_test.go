package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront-api/internal/domain"
	orderrepo "storefront-api/internal/repository/order"
	"storefront-api/internal/service/checkout"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

type placeOrderStub struct {
	orderID int64
	err     error
}

func (s *placeOrderStub) PlaceOrder(context.Context, string, []orderrepo.SubmissionLine) (int64, error) {
	return s.orderID, s.err
}

func (s *placeOrderStub) ListByUser(context.Context, string) ([]domain.Order, error) {
	return nil, nil
}

func (s *placeOrderStub) GetDetails(context.Context, string, int64) ([]domain.OrderItemDetail, error) {
	return nil, nil
}

func submitOrder(t *testing.T, orders *placeOrderStub, body string) *httptest.ResponseRecorder {
	t.Helper()

	coord := checkout.NewCoordinator(orders, nil, nil, nil, logDiscard(), 5*time.Second)
	router, token := newAuthedRouter(t, Deps{Checkout: coord})

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitOrder_Created(t *testing.T) {
	rec := submitOrder(t, &placeOrderStub{orderID: 42},
		`{"lines":[{"productId":7,"quantity":2,"priceCents":150}]}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"orderId":42`) {
		t.Fatalf("response missing order id: %s", rec.Body.String())
	}
}

func TestSubmitOrder_InsufficientStock(t *testing.T) {
	rec := submitOrder(t, &placeOrderStub{err: &pgconn.PgError{Code: "SK001", Message: "Not enough stock for product id 7"}},
		`{"lines":[{"productId":7,"quantity":2,"priceCents":150}]}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"class":"insufficient_stock"`) {
		t.Fatalf("response missing failure class: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"retryable":true`) {
		t.Fatalf("insufficient stock should be retryable: %s", rec.Body.String())
	}
}

func TestSubmitOrder_PostPaymentFailure(t *testing.T) {
	rec := submitOrder(t, &placeOrderStub{err: &pgconn.PgError{Code: "57P01", Message: "terminating connection"}},
		`{"lines":[{"productId":7,"quantity":2,"priceCents":150}],"paymentStatus":"completed"}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"retryable":false`) {
		t.Fatalf("post-payment failure must not be retryable: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "support") {
		t.Fatalf("expected support guidance: %s", rec.Body.String())
	}
}

func TestSubmitOrder_MissingLines(t *testing.T) {
	rec := submitOrder(t, &placeOrderStub{orderID: 1}, `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRespondCheckoutFailure_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		class checkout.FailureClass
		want  int
	}{
		{checkout.FailureValidation, http.StatusBadRequest},
		{checkout.FailureAuthentication, http.StatusUnauthorized},
		{checkout.FailureInsufficientStock, http.StatusConflict},
		{checkout.FailureTransaction, http.StatusInternalServerError},
		{checkout.FailureNetwork, http.StatusGatewayTimeout},
		{checkout.FailurePostPayment, http.StatusBadGateway},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)

		respondCheckoutFailure(c, &checkout.Failure{Class: tc.class, Reason: "boom"})

		if rec.Code != tc.want {
			t.Fatalf("class %s: expected %d, got %d", tc.class, tc.want, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	respondCheckoutFailure(c, checkout.ErrSubmissionInFlight)
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-flight rejection: expected 409, got %d", rec.Code)
	}
}
