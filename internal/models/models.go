package models

// Product represents an item in the catalog
type Product struct {
	ID    int64   `db:"id" json:"id"`
	Name  string  `db:"name" json:"name"`
	Price float64 `db:"price" json:"price"`
}

// ProductDetail is a product joined with its extended details
type ProductDetail struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Price       float64 `db:"price" json:"price"`
	Category    string  `db:"category" json:"category"`
	Description string  `db:"description" json:"description"`
	Stock       int     `db:"stock" json:"stock"`
}

// ProductRef carries only a product id, used by search and filter results
type ProductRef struct {
	ID int64 `db:"id" json:"id"`
}

// User represents a registered user
type User struct {
	Username     string `db:"username" json:"username"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
}

// Transaction is a purchase record. Product name and price are snapshots
// taken at purchase time; they never change even if the product does.
type Transaction struct {
	TransactionID int64   `db:"transaction_id" json:"transactionID"`
	Username      string  `db:"username" json:"username"`
	ProductID     int64   `db:"product_id" json:"productID"`
	ProductName   string  `db:"product_name" json:"productName"`
	Price         float64 `db:"price" json:"price"`
}
