package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout counts order submissions by outcome and payment intents created.
type Checkout struct {
	Submissions    *prometheus.CounterVec
	PaymentIntents prometheus.Counter
}

// NewCheckout registers checkout metrics with reg (the default registerer
// when nil).
func NewCheckout(reg prometheus.Registerer) *Checkout {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "order_submissions_total",
		Help:      "Order submission attempts by outcome.",
	}, []string{"outcome"})
	intents := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "payment_intents_total",
		Help:      "Payment intents created.",
	})

	reg.MustRegister(submissions, intents)
	return &Checkout{Submissions: submissions, PaymentIntents: intents}
}

// ObserveSubmission is nil-safe so callers without metrics wired can skip it.
func (c *Checkout) ObserveSubmission(outcome string) {
	if c == nil {
		return
	}
	c.Submissions.WithLabelValues(outcome).Inc()
}

func (c *Checkout) ObservePaymentIntent() {
	if c == nil {
		return
	}
	c.PaymentIntents.Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
