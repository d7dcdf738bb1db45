package transport

import (
	"github.com/google/uuid"

	ordermodels "github.com/Skotchmaster/storefront/internal/order/models"
	ordertransport "github.com/Skotchmaster/storefront/internal/order/transport"
)

// Credentials may carry the cart the client collected before signing in.
type Credentials struct {
	Username string                          `json:"username"`
	Password string                          `json:"password"`
	Cart     []ordertransport.ClientCartItem `json:"cart,omitempty"`
}

type UserView struct {
	ID       uuid.UUID               `json:"id"`
	Username string                  `json:"username"`
	Orders   []ordermodels.OrderLine `json:"orders"`
}
