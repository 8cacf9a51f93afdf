package payment

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	paymentuc "github.com/riolentius/hideki-store-backend/internal/usecase/payment"
)

type stubReconciler struct {
	attempt *paymentuc.Attempt
	err     error
	got     paymentuc.Outcome
	note    paymentuc.Notification
}

func (s *stubReconciler) Get(_ context.Context, _ string) (*paymentuc.Attempt, error) {
	return s.attempt, s.err
}

func (s *stubReconciler) Resolve(_ context.Context, _ string, out paymentuc.Outcome) (*paymentuc.Attempt, error) {
	s.got = out
	return s.attempt, s.err
}

func (s *stubReconciler) Recheck(_ context.Context, _ string) (*paymentuc.Attempt, error) {
	return s.attempt, s.err
}

func (s *stubReconciler) HandleNotification(_ context.Context, n paymentuc.Notification) (*paymentuc.Attempt, error) {
	s.note = n
	return s.attempt, s.err
}

func newApp(r Reconciler) *fiber.App {
	h := New(r, nil)
	app := fiber.New()
	app.Post("/payments/notifications", h.Notification)
	app.Get("/payments/:orderId", h.Get)
	app.Post("/payments/:orderId/outcome", h.Outcome)
	app.Post("/payments/:orderId/recheck", h.Recheck)
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	return res.StatusCode
}

func TestOutcome_PassesKind(t *testing.T) {
	r := &stubReconciler{attempt: &paymentuc.Attempt{OrderID: "HDK-1", State: paymentuc.StateClosed}}
	app := newApp(r)

	require.Equal(t, 200, post(t, app, "/payments/HDK-1/outcome", `{"kind":"closed"}`))
	require.Equal(t, paymentuc.OutcomeClosed, r.got.Kind)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{paymentuc.ErrAttemptNotFound, 404},
		{paymentuc.ErrAlreadyResolved, 409},
		{paymentuc.ErrInvalidTransition, 409},
		{paymentuc.ErrGatewayUnavailable, 502},
		{paymentuc.ErrInvalidInput, 400},
	}
	for _, tc := range cases {
		app := newApp(&stubReconciler{err: tc.err})
		require.Equal(t, tc.code, post(t, app, "/payments/HDK-1/recheck", ""), tc.err.Error())
	}
}

func TestNotification_RoutesBeforeOrderID(t *testing.T) {
	r := &stubReconciler{attempt: &paymentuc.Attempt{OrderID: "HDK-1", State: paymentuc.StateSuccess}}
	app := newApp(r)

	body := `{"order_id":"HDK-1","status_code":"200","gross_amount":"1916000.00","transaction_status":"settlement","signature_key":"abc"}`
	require.Equal(t, 200, post(t, app, "/payments/notifications", body))
	require.Equal(t, "HDK-1", r.note.OrderID)
	require.Equal(t, "settlement", r.note.TransactionStatus)
}

func TestNotification_BadSignatureIs401(t *testing.T) {
	app := newApp(&stubReconciler{err: paymentuc.ErrInvalidSignature})
	require.Equal(t, 401, post(t, app, "/payments/notifications", `{"order_id":"HDK-1"}`))
}
