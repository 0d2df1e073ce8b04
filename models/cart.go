package models

import "time"

// GuestUserID is the shared identity used when guest mode is "shared".
const GuestUserID = "guest-user"

// CartItem is one slot in a cart. ID addresses the slot, not the product.
type CartItem struct {
	ID        string `json:"_id" bson:"_id"`
	ProductID string `json:"productId" bson:"productId"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// Cart holds at most one item per product. Version is bumped on every
// successful save; zero means the cart has never been persisted.
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewCart returns an empty, unsaved cart for userID.
func NewCart(userID string) *Cart {
	return &Cart{UserID: userID, Items: []CartItem{}}
}

// IndexOfItem returns the slot index of itemID, or -1.
func (c *Cart) IndexOfItem(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// IndexOfProduct returns the slot index holding productID, or -1.
func (c *Cart) IndexOfProduct(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so stores never share item slices with callers.
func (c *Cart) Clone() *Cart {
	out := *c
	out.Items = make([]CartItem, len(c.Items))
	copy(out.Items, c.Items)
	return &out
}

// CartLine is a cart item enriched with its catalog product.
//
// Product is serialized as "productId" because existing clients read
// item.productId.price; ProductID always carries the raw reference. When the
// product has left the catalog, Product is nil and Available is false.
type CartLine struct {
	ID        string   `json:"_id"`
	ProductID string   `json:"productRef"`
	Product   *Product `json:"productId"`
	Quantity  int      `json:"quantity"`
	Available bool     `json:"available"`
}

// ResolvedProductID prefers the embedded product's id over the raw reference.
func (l CartLine) ResolvedProductID() string {
	if l.Product != nil && l.Product.ID != "" {
		return l.Product.ID
	}
	return l.ProductID
}

// CartView is the enriched cart returned to clients.
type CartView struct {
	UserID string     `json:"-"`
	Items  []CartLine `json:"cart"`
	Total  string     `json:"total"`
}
