package services

import (
	"context"
	"errors"
	"math"
	"strings"

	apperrors "storefront-service/errors"
	"storefront-service/models"
	"storefront-service/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService defines the cart operations exposed over HTTP.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.CartView, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*models.CartView, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*models.CartView, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.CartView, error)
	ClearCart(ctx context.Context, userID string) (*models.CartView, error)
}

type cartServiceImpl struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{
		carts:    carts,
		products: products,
		logger:   logger,
	}
}

// GetCart returns the enriched cart, creating an empty one on first access.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*models.CartView, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// AddItem merges quantity into the line for productID, appending a new line
// when the cart has none.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.CartView, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" || quantity < 1 {
		return nil, apperrors.InvalidInput("Invalid productId or quantity")
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, apperrors.Fault("Error adding to cart", err)
	}

	cart, err := mutateCart(ctx, s.carts, s.logger, userID, s.getOrCreate, func(cart *models.Cart) (bool, error) {
		if i := cart.IndexOfProduct(productID); i >= 0 {
			if quantity > math.MaxInt-cart.Items[i].Quantity {
				return false, apperrors.InvalidInput("Invalid productId or quantity")
			}
			cart.Items[i].Quantity += quantity
			return true, nil
		}
		cart.Items = append(cart.Items, models.CartItem{
			ID:        uuid.NewString(),
			ProductID: productID,
			Quantity:  quantity,
		})
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Item added to cart",
		zap.String("user_id", userID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)
	return s.view(ctx, cart)
}

// RemoveItem deletes exactly one line. A second removal of the same line is
// NotFound.
func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, itemID string) (*models.CartView, error) {
	cart, err := mutateCart(ctx, s.carts, s.logger, userID, s.find, func(cart *models.Cart) (bool, error) {
		i := cart.IndexOfItem(itemID)
		if i < 0 {
			return false, apperrors.NotFound("Item not found in cart")
		}
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// UpdateQuantity replaces a line's quantity in place. Zero is rejected; use
// RemoveItem to drop a line.
func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.CartView, error) {
	if quantity < 1 {
		return nil, apperrors.InvalidInput("Invalid quantity")
	}

	cart, err := mutateCart(ctx, s.carts, s.logger, userID, s.find, func(cart *models.Cart) (bool, error) {
		i := cart.IndexOfItem(itemID)
		if i < 0 {
			return false, apperrors.NotFound("Item not found in cart")
		}
		if cart.Items[i].Quantity == quantity {
			return false, nil
		}
		cart.Items[i].Quantity = quantity
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// ClearCart empties the user's cart. Clearing a cart that does not exist
// succeeds with an empty view.
func (s *cartServiceImpl) ClearCart(ctx context.Context, userID string) (*models.CartView, error) {
	cart, err := clearCart(ctx, s.carts, s.logger, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &models.CartView{UserID: userID, Items: []models.CartLine{}, Total: FormatAmount(decimal.Zero)}, nil
	}
	return s.view(ctx, cart)
}

func (s *cartServiceImpl) getOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, apperrors.Fault("Error fetching cart", err)
	}
	return cart, nil
}

func (s *cartServiceImpl) find(ctx context.Context, userID string) (*models.Cart, error) {
	return findCart(ctx, s.carts, userID)
}

// view populates every line from the catalog in one batch lookup. Lines
// whose product has left the catalog stay visible with available=false and
// do not count toward the total.
func (s *cartServiceImpl) view(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	ids := make([]string, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.ProductID)
	}

	products := map[string]*models.Product{}
	if len(ids) > 0 {
		var err error
		products, err = s.products.FindByIDs(ctx, ids)
		if err != nil {
			return nil, apperrors.Fault("Error fetching cart", err)
		}
	}

	total := decimal.Zero
	lines := make([]models.CartLine, 0, len(cart.Items))
	for _, it := range cart.Items {
		line := models.CartLine{ID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity}
		if p, ok := products[it.ProductID]; ok {
			line.Product = p
			line.Available = true
			total = total.Add(LineAmount(p.Price, it.Quantity))
		} else {
			s.logger.Warn("Cart references a product missing from the catalog",
				zap.String("user_id", cart.UserID),
				zap.String("product_id", it.ProductID),
			)
		}
		lines = append(lines, line)
	}

	return &models.CartView{
		UserID: cart.UserID,
		Items:  lines,
		Total:  FormatAmount(RoundAmount(total)),
	}, nil
}

func findCart(ctx context.Context, carts repository.CartRepository, userID string) (*models.Cart, error) {
	cart, err := carts.Find(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Cart not found")
	}
	if err != nil {
		return nil, apperrors.Fault("Error fetching cart", err)
	}
	return cart, nil
}

// clearCart empties an existing cart. It returns a nil cart, and no error,
// when the user has none.
func clearCart(ctx context.Context, carts repository.CartRepository, logger *zap.Logger, userID string) (*models.Cart, error) {
	cart, err := mutateCart(ctx, carts, logger, userID, func(ctx context.Context, userID string) (*models.Cart, error) {
		return findCart(ctx, carts, userID)
	}, func(cart *models.Cart) (bool, error) {
		if len(cart.Items) == 0 {
			return false, nil
		}
		cart.Items = []models.CartItem{}
		return true, nil
	})
	if apperrors.Is(err, apperrors.KindNotFound) {
		return nil, nil
	}
	return cart, err
}
