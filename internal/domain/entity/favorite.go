package entity

import (
	"fmt"
	"time"
)

type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

type FavoriteWithProduct struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Product   *Product  `json:"product"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteID is the deterministic key for a (user, product) pair.
func FavoriteID(userID, productID string) string {
	return fmt.Sprintf("%s_%s", userID, productID)
}
