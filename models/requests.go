package models

// AddItemRequest is the body of POST /api/cart.
type AddItemRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required,min=1"`
}

// UpdateQuantityRequest is the body of PUT /api/cart/:id.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest is the body of POST /api/checkout. CartItems is the
// client's enriched cart snapshot.
type CheckoutRequest struct {
	CartItems []CartLine `json:"cartItems"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	UserID    string     `json:"userId"`
}
