package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	orderuc "github.com/riolentius/hideki-store-backend/internal/usecase/order"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrAttemptNotFound    = errors.New("payment attempt not found")
	ErrDuplicateOrder     = errors.New("order id already used")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrInvalidTransition  = errors.New("invalid payment state transition")
	ErrAlreadyResolved    = errors.New("payment attempt already resolved")
	ErrInvalidSignature   = errors.New("invalid notification signature")
	ErrAmountMismatch     = errors.New("gross amount does not match order")
)

type Store interface {
	// Create fails with ErrDuplicateOrder when the order id exists.
	Create(ctx context.Context, a *Attempt) error
	Get(ctx context.Context, orderID string) (*Attempt, error)
	ListByCart(ctx context.Context, cartID string) ([]Attempt, error)
	// Transition applies fn to the attempt while holding its row lock and
	// persists the result only when fn returns nil. When fn moves the
	// attempt into success, the attempt's cart is emptied in the same
	// commit; a failed clear persists nothing.
	Transition(ctx context.Context, orderID string, fn func(*Attempt) error) (*Attempt, error)
}

type Gateway interface {
	CreateTransaction(ctx context.Context, txn orderuc.Transaction) (*Token, error)
	Status(ctx context.Context, orderID string) (*Outcome, error)
}

// Listener is told about every attempt that reaches success, pending, error
// or closed. Failures are logged and never undo the transition.
type Listener interface {
	AttemptResolved(ctx context.Context, a Attempt) error
}

type Config struct {
	ServerKey      string
	GatewayTimeout time.Duration
}

type Reconciler struct {
	store     Store
	gateway   Gateway
	listeners []Listener
	cfg       Config
	log       *zap.Logger
	now       func() time.Time
}

func NewReconciler(store Store, gateway Gateway, cfg Config, log *zap.Logger, listeners ...Listener) *Reconciler {
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = 45 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		store:     store,
		gateway:   gateway,
		listeners: listeners,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

func isValidTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateAwaitingToken
	case StateAwaitingToken:
		return to == StateAwaitingInteraction || to == StateError
	case StateAwaitingInteraction:
		return to == StateSuccess || to == StatePending || to == StateError || to == StateClosed
	case StatePending:
		return to == StateSuccess || to == StateError
	default:
		return false
	}
}

func (r *Reconciler) advance(a *Attempt, to State) error {
	if !isValidTransition(a.State, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.State, to)
	}
	now := r.now().UTC()
	a.State = to
	a.UpdatedAt = now
	if to.Final() || to == StatePending {
		a.ResolvedAt = &now
	}
	return nil
}

// Begin records a new attempt for txn and requests a payment token. A
// gateway failure or timeout leaves the attempt in error and returns
// ErrGatewayUnavailable; the cart is untouched so the shopper can retry.
func (r *Reconciler) Begin(ctx context.Context, txn *orderuc.Transaction, cartID string) (*Attempt, error) {
	if txn == nil || strings.TrimSpace(txn.OrderID) == "" || strings.TrimSpace(cartID) == "" {
		return nil, ErrInvalidInput
	}

	now := r.now().UTC()
	a := &Attempt{
		OrderID:     txn.OrderID,
		CartID:      cartID,
		State:       StateIdle,
		Transaction: *txn,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.advance(a, StateAwaitingToken); err != nil {
		return nil, err
	}
	if err := r.store.Create(ctx, a); err != nil {
		return nil, err
	}

	tok, gwErr := r.createToken(ctx, *txn)
	if gwErr != nil {
		r.log.Warn("payment token request failed",
			zap.String("order_id", txn.OrderID),
			zap.Error(gwErr),
		)
		failed, err := r.store.Transition(ctx, txn.OrderID, func(cur *Attempt) error {
			if err := r.advance(cur, StateError); err != nil {
				return err
			}
			cur.FailureReason = gwErr.Error()
			return nil
		})
		if err != nil {
			return nil, err
		}
		r.notify(ctx, *failed)
		return failed, fmt.Errorf("%w: %v", ErrGatewayUnavailable, gwErr)
	}

	return r.store.Transition(ctx, txn.OrderID, func(cur *Attempt) error {
		if err := r.advance(cur, StateAwaitingInteraction); err != nil {
			return err
		}
		cur.Token = tok.Token
		cur.RedirectURL = tok.RedirectURL
		return nil
	})
}

// createToken bounds the gateway call so an unresponsive gateway becomes an
// error instead of a hang, even when the adapter ignores ctx.
func (r *Reconciler) createToken(ctx context.Context, txn orderuc.Transaction) (*Token, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.GatewayTimeout)
	defer cancel()

	type result struct {
		tok *Token
		err error
	}
	ch := make(chan result, 1)
	go func() {
		tok, err := r.gateway.CreateTransaction(ctx, txn)
		ch <- result{tok, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("token request: %w", ctx.Err())
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		if res.tok == nil || res.tok.Token == "" {
			return nil, errors.New("gateway returned no token")
		}
		return res.tok, nil
	}
}

func (r *Reconciler) status(ctx context.Context, orderID string) (*Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.GatewayTimeout)
	defer cancel()

	type result struct {
		out *Outcome
		err error
	}
	// orderID may alias a request buffer that is reused once the caller returns
	id := strings.Clone(orderID)
	ch := make(chan result, 1)
	go func() {
		out, err := r.gateway.Status(ctx, id)
		ch <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("status request: %w", ctx.Err())
	case res := <-ch:
		if res.err == nil && res.out == nil {
			return nil, errors.New("gateway returned no status")
		}
		return res.out, res.err
	}
}

func (r *Reconciler) Get(ctx context.Context, orderID string) (*Attempt, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, ErrInvalidInput
	}
	return r.store.Get(ctx, orderID)
}

func (r *Reconciler) ListByCart(ctx context.Context, cartID string) ([]Attempt, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, ErrInvalidInput
	}
	return r.store.ListByCart(ctx, cartID)
}

// Resolve applies the single outcome reported by the shopper's browser.
// A reported success is confirmed with the gateway before the cart is
// cleared; if confirmation is impossible the attempt is parked as pending.
func (r *Reconciler) Resolve(ctx context.Context, orderID string, out Outcome) (*Attempt, error) {
	if strings.TrimSpace(orderID) == "" || !out.Kind.valid() {
		return nil, ErrInvalidInput
	}

	cur, err := r.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if cur.State.Final() || cur.State == StatePending {
		if cur.LastOutcome != nil && cur.LastOutcome.Kind == out.Kind {
			return cur, nil
		}
		return cur, ErrAlreadyResolved
	}
	if cur.State != StateAwaitingInteraction {
		return cur, fmt.Errorf("%w: %s", ErrInvalidTransition, cur.State)
	}

	out.Verified = false
	if out.Kind == OutcomeSuccess {
		verified, err := r.status(ctx, orderID)
		if err != nil {
			r.log.Warn("could not confirm reported payment success",
				zap.String("order_id", orderID),
				zap.Error(err),
			)
			out.Kind = OutcomePending
			out.Message = "payment is being confirmed"
		} else {
			out = *verified
			out.Verified = true
		}
	}

	if out.Kind == OutcomeClosed && out.Message == "" {
		out.Message = "payment window closed before the payment finished"
	}

	return r.apply(ctx, orderID, out, out.Verified)
}

// Recheck asks the gateway for the current status of an unresolved attempt.
// Attempts already in a final state are returned unchanged.
func (r *Reconciler) Recheck(ctx context.Context, orderID string) (*Attempt, error) {
	cur, err := r.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if cur.State != StatePending && cur.State != StateAwaitingInteraction {
		return cur, nil
	}

	out, err := r.status(ctx, orderID)
	if err != nil {
		return cur, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	out.Verified = true
	return r.apply(ctx, orderID, *out, true)
}

// HandleNotification trusts a server-side status callback only when its
// signature verifies and its amount equals the attempt's gross total.
func (r *Reconciler) HandleNotification(ctx context.Context, n Notification) (*Attempt, error) {
	if strings.TrimSpace(n.OrderID) == "" {
		return nil, ErrInvalidInput
	}
	if !VerifySignature(n, r.cfg.ServerKey) {
		return nil, ErrInvalidSignature
	}

	cur, err := r.store.Get(ctx, n.OrderID)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(n.GrossAmount))
	if err != nil || !amount.Equal(decimal.NewFromInt(cur.Transaction.GrossTotal)) {
		r.log.Warn("notification amount mismatch",
			zap.String("order_id", n.OrderID),
			zap.String("gross_amount", n.GrossAmount),
			zap.Int64("expected", cur.Transaction.GrossTotal),
		)
		return cur, ErrAmountMismatch
	}

	out := Outcome{
		Kind:              MapStatus(n.TransactionStatus, n.FraudStatus),
		TransactionID:     n.TransactionID,
		PaymentType:       n.PaymentType,
		StatusCode:        n.StatusCode,
		TransactionStatus: n.TransactionStatus,
		FraudStatus:       n.FraudStatus,
		GrossAmount:       n.GrossAmount,
		Message:           n.StatusMessage,
		Verified:          true,
	}
	return r.apply(ctx, n.OrderID, out, true)
}

// apply moves the attempt to the state implied by out under the row lock.
// Verified outcomes arriving for an attempt that is already final are
// recorded without a state change; a settlement on an abandoned attempt is
// flagged for manual review.
func (r *Reconciler) apply(ctx context.Context, orderID string, out Outcome, verified bool) (*Attempt, error) {
	changed := false
	a, err := r.store.Transition(ctx, orderID, func(cur *Attempt) error {
		changed = false
		target := out.Kind.state()

		// browser reports only count while the attempt still awaits them;
		// the state may have moved since the caller last read it
		if !verified && cur.State != StateAwaitingInteraction {
			if cur.State == target {
				return nil
			}
			return ErrAlreadyResolved
		}

		switch {
		case cur.State == target:
			cur.LastOutcome = &out
			cur.UpdatedAt = r.now().UTC()
			return nil
		case cur.State.Final():
			if target == StateSuccess {
				cur.ReviewRequired = true
				r.log.Error("settlement received for a closed payment attempt",
					zap.String("order_id", orderID),
					zap.String("state", string(cur.State)),
				)
			}
			cur.LastOutcome = &out
			cur.UpdatedAt = r.now().UTC()
			return nil
		case cur.State == StateAwaitingToken && verified:
			// the gateway knows the order before our token response landed
			cur.State = StateAwaitingInteraction
		}

		if err := r.advance(cur, target); err != nil {
			return err
		}

		cur.LastOutcome = &out
		if target == StateError && out.Message != "" {
			cur.FailureReason = out.Message
		}
		changed = true
		return nil
	})
	if err != nil {
		return a, err
	}

	if changed {
		r.log.Info("payment attempt resolved",
			zap.String("order_id", orderID),
			zap.String("state", string(a.State)),
			zap.Bool("verified", out.Verified),
		)
		r.notify(ctx, *a)
	}
	return a, nil
}

func (r *Reconciler) notify(ctx context.Context, a Attempt) {
	for _, l := range r.listeners {
		if err := l.AttemptResolved(ctx, a); err != nil {
			r.log.Warn("payment listener failed",
				zap.String("order_id", a.OrderID),
				zap.String("state", string(a.State)),
				zap.Error(err),
			)
		}
	}
}
