package transport

import catalogmodels "github.com/Skotchmaster/storefront/internal/catalog/models"

// ClientCartItem is a cart line as the client holds it. ID is the server
// line id once known, otherwise a client placeholder.
type ClientCartItem struct {
	ID       string                `json:"id"`
	Quantity int                   `json:"quantity"`
	Product  catalogmodels.Product `json:"product"`
}

type CreateLineRequest struct {
	ProductID int `json:"productId"`
}

type AdjustQuantityRequest struct {
	Operation string `json:"operation"`
}

type SyncRequest struct {
	Orders []ClientCartItem `json:"orders"`
}
