package models

// Product is a catalog entry. The cart core only ever reads products.
type Product struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
}

// ProductFilter narrows a catalog listing. Zero value lists everything.
type ProductFilter struct {
	Category string
}
