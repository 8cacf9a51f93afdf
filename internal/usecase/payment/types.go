package payment

import (
	"time"

	orderuc "github.com/riolentius/hideki-store-backend/internal/usecase/order"
)

type State string

const (
	StateIdle                State = "idle"
	StateAwaitingToken       State = "awaiting_token"
	StateAwaitingInteraction State = "awaiting_interaction"
	StateSuccess             State = "success"
	StatePending             State = "pending"
	StateError               State = "error"
	StateClosed              State = "closed"
)

// Final reports whether no further transition is possible. Pending is not
// final: a verified settlement or failure can still move it.
func (s State) Final() bool {
	return s == StateSuccess || s == StateError || s == StateClosed
}

type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomePending OutcomeKind = "pending"
	OutcomeError   OutcomeKind = "error"
	OutcomeClosed  OutcomeKind = "closed"
)

// Outcome is the single result of the gateway's interactive step,
// replacing the four separate callbacks of the browser SDK.
type Outcome struct {
	Kind              OutcomeKind `json:"kind"`
	TransactionID     string      `json:"transactionId,omitempty"`
	PaymentType       string      `json:"paymentType,omitempty"`
	StatusCode        string      `json:"statusCode,omitempty"`
	TransactionStatus string      `json:"transactionStatus,omitempty"`
	FraudStatus       string      `json:"fraudStatus,omitempty"`
	GrossAmount       string      `json:"grossAmount,omitempty"`
	Message           string      `json:"message,omitempty"`
	Verified          bool        `json:"verified"`
}

func (k OutcomeKind) valid() bool {
	switch k {
	case OutcomeSuccess, OutcomePending, OutcomeError, OutcomeClosed:
		return true
	}
	return false
}

func (k OutcomeKind) state() State {
	switch k {
	case OutcomeSuccess:
		return StateSuccess
	case OutcomePending:
		return StatePending
	case OutcomeClosed:
		return StateClosed
	default:
		return StateError
	}
}

type Token struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
}

type Attempt struct {
	OrderID        string              `json:"orderId"`
	CartID         string              `json:"cartId"`
	State          State               `json:"state"`
	Transaction    orderuc.Transaction `json:"transaction"`
	Token          string              `json:"token,omitempty"`
	RedirectURL    string              `json:"redirectUrl,omitempty"`
	LastOutcome    *Outcome            `json:"lastOutcome,omitempty"`
	FailureReason  string              `json:"failureReason,omitempty"`
	ReviewRequired bool                `json:"reviewRequired"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
	ResolvedAt     *time.Time          `json:"resolvedAt,omitempty"`
}

// View names the storefront screen that matches the attempt state.
func (a *Attempt) View() string {
	switch a.State {
	case StateSuccess:
		return "confirmation"
	case StatePending:
		return "pending"
	case StateError:
		return "failed"
	case StateClosed:
		return "abandoned"
	case StateAwaitingInteraction:
		return "payment"
	default:
		return "checkout"
	}
}

// Notification is the gateway's server-to-server status callback.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	TransactionID     string `json:"transaction_id"`
	StatusMessage     string `json:"status_message"`
}
