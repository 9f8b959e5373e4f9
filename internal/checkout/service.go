package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/cache"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/domain"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/notify"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/payment"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/telemetry"
)

type UserStore interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type ProductStore interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
}

// Request is one checkout attempt. The buyer is passed in explicitly; the
// service reads no ambient session state.
type Request struct {
	Buyer          *domain.User
	ProductID      string
	Token          string
	IdempotencyKey string
}

type Result struct {
	Order     *domain.Order
	ChargeID  string
	Duplicate bool
}

type Service struct {
	users       UserStore
	products    ProductStore
	orders      OrderStore
	processor   payment.Processor
	idempotency cache.IdempotencyStore
	notifier    notify.Notifier
	metrics     *telemetry.Metrics
	log         *zap.Logger
	currency    string
	stepTimeout time.Duration
}

func NewService(
	users UserStore,
	products ProductStore,
	orders OrderStore,
	processor payment.Processor,
	idempotency cache.IdempotencyStore,
	notifier notify.Notifier,
	metrics *telemetry.Metrics,
	log *zap.Logger,
	currency string,
	stepTimeout time.Duration,
) *Service {
	return &Service{
		users:       users,
		products:    products,
		orders:      orders,
		processor:   processor,
		idempotency: idempotency,
		notifier:    notifier,
		metrics:     metrics,
		log:         log,
		currency:    currency,
		stepTimeout: stepTimeout,
	}
}

// Checkout runs the strictly sequential purchase flow: product load, seller
// lookup, charge, order creation, confirmation. Each step result is
// inspected before the next step runs; an order is created if and only if
// the charge status is "succeeded".
func (s *Service) Checkout(ctx context.Context, req *Request) (*Result, error) {
	if req.IdempotencyKey != "" {
		if result, ok := s.checkIdempotency(ctx, req.IdempotencyKey); ok {
			return result, nil
		}
	}

	product, err := s.loadProduct(ctx, req)
	if err != nil {
		s.metrics.CheckoutsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	seller, err := s.lookupSeller(ctx, product.Owner)
	if err != nil {
		s.metrics.CheckoutsTotal.WithLabelValues("seller_lookup_failed").Inc()
		return nil, err
	}

	charge, err := s.charge(ctx, req.Token, product)
	if err != nil {
		if errors.Is(err, ErrChargeDeclined) {
			s.metrics.CheckoutsTotal.WithLabelValues("declined").Inc()
		} else {
			s.metrics.CheckoutsTotal.WithLabelValues("charge_failed").Inc()
		}
		return nil, err
	}

	order, err := s.createOrder(ctx, req.Buyer.ID, product, charge)
	if err != nil {
		s.metrics.CheckoutsTotal.WithLabelValues("order_failed").Inc()
		return nil, err
	}

	s.confirm(ctx, order, product, req.Buyer, seller)

	if req.IdempotencyKey != "" {
		if err := s.idempotency.SetOrderID(ctx, req.IdempotencyKey, order.ID); err != nil {
			s.log.Warn("failed to record idempotency key", zap.Error(err))
		}
	}

	s.metrics.CheckoutsTotal.WithLabelValues("completed").Inc()
	s.metrics.OrdersCreated.Inc()

	return &Result{Order: order, ChargeID: charge.ID}, nil
}

// checkIdempotency returns the previously created order when the key was
// already used, so a retried request never charges twice.
func (s *Service) checkIdempotency(ctx context.Context, key string) (*Result, bool) {
	orderID, err := s.idempotency.GetOrderID(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, false
	}
	if err != nil {
		s.log.Warn("idempotency lookup failed, proceeding", zap.Error(err))
		return nil, false
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		s.log.Warn("idempotent order fetch failed, proceeding",
			zap.String("order_id", orderID), zap.Error(err))
		return nil, false
	}

	s.log.Info("duplicate checkout detected",
		zap.String("idempotency_key", key),
		zap.String("order_id", orderID),
	)
	return &Result{Order: order, Duplicate: true}, true
}

func (s *Service) loadProduct(ctx context.Context, req *Request) (*domain.Product, error) {
	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	product, err := s.products.GetProduct(stepCtx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProductNotFound, err)
	}
	if product.Owner == req.Buyer.ID {
		return nil, ErrOwnProduct
	}
	if !req.Buyer.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	return product, nil
}

func (s *Service) lookupSeller(ctx context.Context, ownerID string) (*domain.User, error) {
	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	seller, err := s.users.GetUser(stepCtx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSellerLookup, err)
	}
	return seller, nil
}

func (s *Service) charge(ctx context.Context, token string, product *domain.Product) (*payment.Charge, error) {
	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	charge, err := s.processor.CreateCharge(stepCtx, payment.ChargeParams{
		Source:      token,
		Amount:      product.Price,
		Currency:    s.currency,
		Description: fmt.Sprintf("Product Purchased: %s | %s", product.Name, product.Description),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChargeFailed, err)
	}
	if !charge.Succeeded() {
		s.log.Info("charge not successful",
			zap.String("product_id", product.ID),
			zap.String("status", charge.Status),
		)
		return nil, fmt.Errorf("%w: status %q", ErrChargeDeclined, charge.Status)
	}
	return charge, nil
}

func (s *Service) createOrder(ctx context.Context, buyerID string, product *domain.Product, charge *payment.Charge) (*domain.Order, error) {
	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	// the address the processor collected is only kept for shipped goods
	var address *domain.ShippingAddress
	if product.Shipped {
		address = &domain.ShippingAddress{
			City:    charge.Source.AddressCity,
			Country: charge.Source.AddressCountry,
			Line1:   charge.Source.AddressLine1,
			State:   charge.Source.AddressState,
			Zip:     charge.Source.AddressZip,
		}
	}

	order := &domain.Order{
		ID:              uuid.New().String(),
		UserID:          buyerID,
		ProductID:       product.ID,
		ShippingAddress: address,
	}

	if err := s.orders.CreateOrder(stepCtx, order); err != nil {
		// the buyer was charged but has no order; this needs an operator
		s.log.Error("order creation failed after successful charge",
			zap.String("charge_id", charge.ID),
			zap.String("product_id", product.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreate, err)
	}

	return order, nil
}

func (s *Service) confirm(ctx context.Context, order *domain.Order, product *domain.Product, buyer, seller *domain.User) {
	confirmation := notify.OrderConfirmation{
		OrderID:     order.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Amount:      product.Price,
		Currency:    s.currency,
		BuyerEmail:  buyer.Email,
		SellerEmail: seller.Email,
		Shipped:     product.Shipped,
	}
	// confirmation delivery is best effort; the order already exists
	if err := s.notifier.OrderConfirmed(ctx, confirmation); err != nil {
		s.log.Warn("order confirmation publish failed",
			zap.String("order_id", order.ID), zap.Error(err))
	}
}
