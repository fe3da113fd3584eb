package httpserver

import (
	"errors"
	"net/http"

	"storefront-api/internal/domain"
	"storefront-api/internal/payment"
	"storefront-api/internal/service/cart"
	"storefront-api/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

// submitLine is one priced line of the client's checkout snapshot. The price
// is the one the user saw when the cart was read, submitted as-is.
type submitLine struct {
	ProductID  int64 `json:"productId" binding:"required"`
	Quantity   int   `json:"quantity" binding:"required"`
	PriceCents int64 `json:"priceCents"`
}

type submitOrderRequest struct {
	Lines         []submitLine `json:"lines" binding:"required"`
	PaymentStatus string       `json:"paymentStatus"`
}

func paymentIntentHandler(carts *cart.Service, coord *checkout.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)

		// The snapshot read freezes per-line prices for this attempt; the
		// same lines are returned so the client submits exactly what was
		// priced.
		items, err := carts.List(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
			return
		}

		intent, err := coord.StartPayment(c.Request.Context(), userID, items)
		if err != nil {
			respondCheckoutFailure(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"clientSecret": intent.ClientSecret,
			"amountCents":  intent.AmountCents,
			"currency":     intent.Currency,
			"items":        items,
		})
	}
}

func submitOrderHandler(coord *checkout.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submitOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lines required"})
			return
		}

		lines := make([]domain.CartItemDetail, 0, len(req.Lines))
		for _, l := range req.Lines {
			lines = append(lines, domain.CartItemDetail{
				ProductID:  l.ProductID,
				Quantity:   l.Quantity,
				PriceCents: l.PriceCents,
			})
		}

		userID := currentUserID(c)
		var (
			res *checkout.Result
			err error
		)
		if req.PaymentStatus != "" {
			res, err = coord.SubmitPaid(c.Request.Context(), userID, lines, payment.Status(req.PaymentStatus))
		} else {
			res, err = coord.Submit(c.Request.Context(), userID, lines)
		}
		if err != nil {
			respondCheckoutFailure(c, err)
			return
		}

		c.JSON(http.StatusCreated, res)
	}
}

func respondCheckoutFailure(c *gin.Context, err error) {
	if errors.Is(err, checkout.ErrSubmissionInFlight) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	var f *checkout.Failure
	if !errors.As(err, &f) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order submission failed"})
		return
	}

	body := gin.H{"error": f.Reason, "class": string(f.Class), "retryable": f.Retryable()}
	switch f.Class {
	case checkout.FailureValidation:
		c.JSON(http.StatusBadRequest, body)
	case checkout.FailureAuthentication:
		c.JSON(http.StatusUnauthorized, body)
	case checkout.FailureInsufficientStock:
		c.JSON(http.StatusConflict, body)
	case checkout.FailureNetwork:
		c.JSON(http.StatusGatewayTimeout, body)
	case checkout.FailurePostPayment:
		body["support"] = "contact support before retrying; your payment may already be captured"
		c.JSON(http.StatusBadGateway, body)
	default:
		c.JSON(http.StatusInternalServerError, body)
	}
}
