package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"shopforge/internal/domain"
	"shopforge/internal/infra/paystack"
	rabbit "shopforge/internal/infra/rabbitmq"
	"shopforge/internal/repository"
)

const GatewayName = "paystack"

type ReconcileOutcome string

const (
	OutcomePaid             ReconcileOutcome = "paid"
	OutcomeAlreadyProcessed ReconcileOutcome = "already_processed"
)

// CheckoutParams is everything the storefront needs to open the gateway's
// inline checkout for a pending order.
type CheckoutParams struct {
	Reference   string  `json:"reference"`
	OrderNumber string  `json:"orderNumber"`
	Email       string  `json:"email"`
	AmountMinor int64   `json:"amount"`
	Amount      float64 `json:"displayAmount"`
	Currency    string  `json:"currency"`
}

type ReconcileResult struct {
	OrderNumber string           `json:"orderNumber"`
	Outcome     ReconcileOutcome `json:"outcome"`
}

type PaymentService struct {
	orders    repository.OrderRepository
	gateway   paystack.VerifierInterface
	publisher rabbit.PublisherInterface
	currency  string
}

func NewPaymentService(orders repository.OrderRepository, gateway paystack.VerifierInterface, publisher rabbit.PublisherInterface, currency string) *PaymentService {
	return &PaymentService{
		orders:    orders,
		gateway:   gateway,
		publisher: publisher,
		currency:  currency,
	}
}

// InitiatePayment mints a gateway reference for a pending order. The order
// id is embedded in the reference, so no server-side state is needed to
// tie the eventual callback back to the order.
func (s *PaymentService) InitiatePayment(ctx context.Context, userID uint64, orderNumber string) (*CheckoutParams, error) {
	order, err := s.orders.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	if order.PaymentStatus != domain.PaymentStatusPending {
		return nil, ErrOrderNotPayable
	}

	reference := domain.MintPaymentReference(order.ID, time.Now())
	return &CheckoutParams{
		Reference:   reference,
		OrderNumber: order.OrderNumber,
		Email:       order.ShippingEmail,
		AmountMinor: int64(math.Round(order.TotalAmount * 100)),
		Amount:      order.TotalAmount,
		Currency:    s.currency,
	}, nil
}

// ReconcilePayment handles the gateway callback. The reference is untrusted
// input from a public endpoint: it is verified against the gateway's API
// before anything is written, and the finalize itself is a row-level
// compare-and-swap, so replayed callbacks collapse into AlreadyProcessed.
func (s *PaymentService) ReconcilePayment(ctx context.Context, reference string) (*ReconcileResult, error) {
	if reference == "" {
		return nil, ErrMissingReference
	}

	verification, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		// Unknown outcome, not a decline. The order stays pending and the
		// caller may retry.
		return nil, fmt.Errorf("%w: %v", ErrVerificationUnavailable, err)
	}
	if !verification.Succeeded {
		return nil, ErrPaymentNotSuccessful
	}

	orderID, err := domain.ParsePaymentReference(reference)
	if err != nil {
		log.Printf("Unresolvable payment reference %q", reference)
		return nil, ErrOrderUnresolvable
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		log.Printf("Payment reference %q names unknown order %d", reference, orderID)
		return nil, ErrOrderUnresolvable
	}

	currency := verification.Currency
	if currency == "" {
		currency = s.currency
	}
	payment := &domain.Payment{
		OrderID:              order.ID,
		TransactionReference: reference,
		Gateway:              GatewayName,
		Amount:               float64(verification.Amount) / 100,
		Currency:             currency,
		Status:               "success",
		GatewayResponse:      string(verification.RawPayload),
		PaidAt:               time.Now(),
	}

	finalized, err := s.orders.FinalizePayment(ctx, order.ID, payment)
	if err != nil {
		return nil, err
	}
	if !finalized {
		return &ReconcileResult{OrderNumber: order.OrderNumber, Outcome: OutcomeAlreadyProcessed}, nil
	}

	go s.publishPaymentReceived(context.Background(), order, payment)

	return &ReconcileResult{OrderNumber: order.OrderNumber, Outcome: OutcomePaid}, nil
}

func (s *PaymentService) publishPaymentReceived(ctx context.Context, order *domain.Order, payment *domain.Payment) {
	evt := domain.PaymentReceivedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Reference:   payment.TransactionReference,
		Gateway:     payment.Gateway,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		PaidAt:      payment.PaidAt,
	}
	if err := s.publisher.Publish(ctx, "payment.received", evt); err != nil {
		log.Printf("Failed to publish payment.received for %s: %v", order.OrderNumber, err)
	}
}
