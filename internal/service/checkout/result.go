package checkout

// FailureClass partitions submission failures by how the caller should react.
type FailureClass string

const (
	// FailureValidation: rejected before any remote call (empty cart,
	// non-positive quantity, missing payment acknowledgement).
	FailureValidation FailureClass = "validation"
	// FailureAuthentication: no active session.
	FailureAuthentication FailureClass = "authentication"
	// FailureInsufficientStock: the transaction refused a line for lack of
	// stock; retryable after adjusting the cart.
	FailureInsufficientStock FailureClass = "insufficient_stock"
	// FailureTransaction: any other backend error; retryable.
	FailureTransaction FailureClass = "transaction"
	// FailureNetwork: timeout or connectivity; retryable, and distinct from
	// business failures so the caller knows the outcome is unknown.
	FailureNetwork FailureClass = "network"
	// FailurePostPayment: payment captured but the submission failed. Not
	// safe to resubmit blindly; escalate to support.
	FailurePostPayment FailureClass = "post_payment"
)

// Failure is the terminal failure outcome of one submission attempt.
type Failure struct {
	Class  FailureClass
	Reason string
}

func (f *Failure) Error() string {
	return string(f.Class) + ": " + f.Reason
}

// Retryable reports whether a plain resubmission is a safe recovery path.
func (f *Failure) Retryable() bool {
	return f.Class != FailurePostPayment
}

// Result is the success outcome of a submission.
type Result struct {
	OrderID int64  `json:"orderId"`
	Message string `json:"message"`
}
