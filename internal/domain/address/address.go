// Package address exposes a user's saved shipping addresses. Addresses are
// created and edited elsewhere; checkout only reads them.
package address

import "context"

// Address is a saved shipping destination.
type Address struct {
	ID        int64
	UserID    int64
	Recipient string
	Line      string
	Phone     string
}

// Repository defines read access to saved addresses.
type Repository interface {
	// ListByUser returns all addresses of the user in creation order
	// (ascending id). An empty result is a valid state.
	ListByUser(ctx context.Context, userID int64) ([]Address, error)
}
