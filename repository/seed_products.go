package repository

import "storefront-service/models"

// DefaultProducts is the catalog loaded by the seed tool and by the
// in-memory catalog. IDs are assigned by the store on ReplaceAll.
func DefaultProducts() []models.Product {
	return []models.Product{
		{Name: "Wireless Headphones", Price: 79.99, Category: "Electronics", Stock: 50,
			Description: "Premium noise-cancelling wireless headphones with 30-hour battery life",
			Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=300"},
		{Name: "Smart Watch", Price: 199.99, Category: "Electronics", Stock: 30,
			Description: "Fitness tracking smartwatch with heart rate monitor and GPS",
			Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=300"},
		{Name: "Laptop Backpack", Price: 49.99, Category: "Accessories", Stock: 100,
			Description: "Durable water-resistant backpack with padded laptop compartment",
			Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=300"},
		{Name: "Portable Charger", Price: 29.99, Category: "Electronics", Stock: 75,
			Description: "20000mAh fast-charging power bank with dual USB ports",
			Image:       "https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=300"},
		{Name: "Bluetooth Speaker", Price: 59.99, Category: "Electronics", Stock: 60,
			Description: "Waterproof portable speaker with 360-degree sound",
			Image:       "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?w=300"},
		{Name: "Yoga Mat", Price: 34.99, Category: "Fitness", Stock: 80,
			Description: "Non-slip exercise mat with carrying strap",
			Image:       "https://images.unsplash.com/photo-1601925260368-ae2f83cf8b7f?w=300"},
		{Name: "Coffee Maker", Price: 89.99, Category: "Home", Stock: 40,
			Description: "Programmable drip coffee maker with thermal carafe",
			Image:       "https://images.unsplash.com/photo-1517668808822-9ebb02f2a0e6?w=300"},
		{Name: "Desk Lamp", Price: 39.99, Category: "Home", Stock: 90,
			Description: "LED desk lamp with adjustable brightness and color temperature",
			Image:       "https://images.unsplash.com/photo-1507473885765-e6ed057f782c?w=300"},
		{Name: "Water Bottle", Price: 24.99, Category: "Accessories", Stock: 120,
			Description: "Insulated stainless steel bottle keeps drinks cold for 24 hours",
			Image:       "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=300"},
		{Name: "Wireless Mouse", Price: 19.99, Category: "Electronics", Stock: 100,
			Description: "Ergonomic wireless mouse with precision tracking",
			Image:       "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=300"},
	}
}
