package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "storefront-service/errors"
	"storefront-service/models"
	aws_pkg "storefront-service/pkg/aws"
	"storefront-service/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PricingMode selects where checkout takes unit prices from.
type PricingMode string

const (
	// PricingCatalog re-prices every line against the live catalog.
	PricingCatalog PricingMode = "catalog"
	// PricingClient trusts the name and price carried in the snapshot.
	PricingClient PricingMode = "client"
)

// CheckoutPublisher announces completed checkouts.
type CheckoutPublisher interface {
	PublishCheckout(ctx context.Context, event models.CheckoutEvent) error
}

// CheckoutInput is the caller's cart snapshot plus customer details.
type CheckoutInput struct {
	UserID string
	Items  []models.CartLine
	Name   string
	Email  string
}

// CheckoutService turns a cart snapshot into a receipt.
type CheckoutService interface {
	Checkout(ctx context.Context, in CheckoutInput) (*models.Receipt, error)
}

type checkoutServiceImpl struct {
	carts     repository.CartRepository
	products  repository.ProductRepository
	publisher CheckoutPublisher
	metrics   aws_pkg.MetricsRecorder
	pricing   PricingMode
	logger    *zap.Logger

	now     func() time.Time
	orderID func(now time.Time) string
}

// NewCheckoutService creates a new CheckoutService. publisher and metrics
// may be nil.
func NewCheckoutService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	publisher CheckoutPublisher,
	metrics aws_pkg.MetricsRecorder,
	pricing PricingMode,
	logger *zap.Logger,
) CheckoutService {
	if pricing == "" {
		pricing = PricingCatalog
	}
	return &checkoutServiceImpl{
		carts:     carts,
		products:  products,
		publisher: publisher,
		metrics:   metrics,
		pricing:   pricing,
		logger:    logger,
		now:       time.Now,
		orderID:   NewOrderID,
	}
}

// NewOrderID returns ORD-<unix millis>-<8 random hex chars>.
func NewOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix)
}

// Checkout validates and prices the snapshot, empties the live cart and
// returns a receipt. Nothing is persisted apart from the emptied cart.
func (s *checkoutServiceImpl) Checkout(ctx context.Context, in CheckoutInput) (*models.Receipt, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return nil, apperrors.InvalidInput("Name and email are required")
	}
	if len(in.Items) == 0 {
		return nil, apperrors.InvalidInput("Cart is empty")
	}
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return nil, apperrors.InvalidInput("Invalid quantity in cart")
		}
		if line.ResolvedProductID() == "" {
			return nil, apperrors.InvalidInput("Cart item is missing a product")
		}
	}

	items, err := s.price(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	receiptItems := make([]models.ReceiptItem, 0, len(items))
	for _, it := range items {
		subtotal := RoundAmount(LineAmount(it.Price, it.Quantity))
		total = total.Add(subtotal)
		it.Subtotal = FormatAmount(subtotal)
		receiptItems = append(receiptItems, it)
	}

	now := s.now().UTC()
	receipt := &models.Receipt{
		OrderID:       s.orderID(now),
		CustomerName:  name,
		CustomerEmail: email,
		Items:         receiptItems,
		Total:         FormatAmount(total),
		Timestamp:     now,
		Status:        models.ReceiptStatusCompleted,
	}

	if _, err := clearCart(ctx, s.carts, s.logger, in.UserID); err != nil {
		return nil, err
	}

	s.logger.Info("Checkout completed",
		zap.String("order_id", receipt.OrderID),
		zap.String("user_id", in.UserID),
		zap.String("total", receipt.Total),
		zap.Int("lines", len(receipt.Items)),
	)

	s.publish(ctx, in.UserID, receipt)
	return receipt, nil
}

// price resolves name and unit price for every line according to the
// configured pricing mode.
func (s *checkoutServiceImpl) price(ctx context.Context, lines []models.CartLine) ([]models.ReceiptItem, error) {
	items := make([]models.ReceiptItem, 0, len(lines))

	if s.pricing == PricingClient {
		for _, line := range lines {
			if line.Product == nil {
				return nil, apperrors.InvalidInput("Cart item is missing product details")
			}
			items = append(items, models.ReceiptItem{
				ProductID: line.ResolvedProductID(),
				Name:      line.Product.Name,
				Price:     line.Product.Price,
				Quantity:  line.Quantity,
			})
		}
		return items, nil
	}

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ResolvedProductID())
	}
	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Fault("Error processing checkout", err)
	}

	for _, line := range lines {
		id := line.ResolvedProductID()
		p, ok := catalog[id]
		if !ok {
			return nil, apperrors.InvalidCartLine(fmt.Sprintf("Product %s is no longer available", id))
		}
		if line.Product != nil && line.Product.Price != p.Price {
			s.logger.Warn("Checkout line re-priced from catalog",
				zap.String("product_id", id),
				zap.Float64("client_price", line.Product.Price),
				zap.Float64("catalog_price", p.Price),
			)
		}
		items = append(items, models.ReceiptItem{
			ProductID: id,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  line.Quantity,
		})
	}
	return items, nil
}

func (s *checkoutServiceImpl) publish(ctx context.Context, userID string, receipt *models.Receipt) {
	if s.metrics != nil && s.metrics.IsEnabled() {
		if err := s.metrics.RecordCount(ctx, aws_pkg.MetricCartCheckouts, map[string]string{"Service": "storefront"}); err != nil {
			s.logger.Warn("Failed to record checkout metric", zap.Error(err))
		}
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishCheckout(ctx, models.NewCheckoutEvent(userID, receipt)); err != nil {
		s.logger.Error("Failed to publish checkout event",
			zap.String("order_id", receipt.OrderID),
			zap.Error(err),
		)
	}
}
