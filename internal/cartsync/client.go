package cartsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync/atomic"
	"time"

	authtransport "github.com/Skotchmaster/storefront/internal/auth/transport"
	catalogmodels "github.com/Skotchmaster/storefront/internal/catalog/models"
	ordermodels "github.com/Skotchmaster/storefront/internal/order/models"
	"github.com/Skotchmaster/storefront/internal/order/service"
	"github.com/Skotchmaster/storefront/internal/order/transport"
)

// APIError is a non-2xx answer from the storefront.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront: status %d: %s", e.Status, e.Message)
}

// Client mirrors one shopper's session. While signed out every cart change
// stays in State; once signed in changes go to the server and State is
// replaced with what the server returns.
type Client struct {
	baseURL    string
	httpClient *http.Client
	State      *State

	authed atomic.Bool
}

// NewClient keeps the session cookie in httpClient's jar, adding one if it
// has none. A nil httpClient gets a default with a 5s timeout.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		hc := *httpClient
		hc.Jar = jar
		httpClient = &hc
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		State:      NewState(),
	}, nil
}

func (c *Client) Authenticated() bool { return c.authed.Load() }

type sessionResponse struct {
	User authtransport.UserView `json:"user"`
	Sync []service.SyncResult   `json:"sync"`
}

// Register creates the account and pushes the local cart along with it.
// The returned results describe how each local item was merged.
func (c *Client) Register(ctx context.Context, username, password string) ([]service.SyncResult, error) {
	return c.signIn(ctx, "/api/users", username, password)
}

func (c *Client) Login(ctx context.Context, username, password string) ([]service.SyncResult, error) {
	return c.signIn(ctx, "/api/users/login", username, password)
}

func (c *Client) signIn(ctx context.Context, path, username, password string) ([]service.SyncResult, error) {
	body := authtransport.Credentials{Username: username, Password: password, Cart: c.State.Items()}

	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	c.authed.Store(true)
	c.State.Replace(FromOrderLines(resp.User.Orders))
	return resp.Sync, nil
}

// Logout drops the session and the local cart even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/users/logout", nil, nil)
	c.authed.Store(false)
	c.State.Empty()
	return err
}

// Refresh reloads the signed-in user's cart from the server.
func (c *Client) Refresh(ctx context.Context) error {
	var resp sessionResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/loadUser", nil, &resp); err != nil {
		return err
	}
	c.authed.Store(true)
	c.State.Replace(FromOrderLines(resp.User.Orders))
	return nil
}

func (c *Client) reloadOrders(ctx context.Context) error {
	var resp struct {
		Orders []ordermodels.OrderLine `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &resp); err != nil {
		return err
	}
	c.State.Replace(FromOrderLines(resp.Orders))
	return nil
}

// Add puts one unit of p in the cart. A product already on the server cart
// is incremented instead of created.
func (c *Client) Add(ctx context.Context, p catalogmodels.Product) error {
	if !c.Authenticated() {
		c.State.Add(p)
		return nil
	}

	if item, ok := c.State.Get(p.ID); ok {
		return c.adjustRemote(ctx, item.ID, service.OpIncrement)
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders", transport.CreateLineRequest{ProductID: p.ID}, nil); err != nil {
		return err
	}
	return c.reloadOrders(ctx)
}

func (c *Client) Adjust(ctx context.Context, productID int, op service.Operation) error {
	if _, err := service.ParseOperation(string(op)); err != nil {
		return err
	}
	if !c.Authenticated() {
		delta := 1
		if op == service.OpDecrement {
			delta = -1
		}
		return c.State.Adjust(productID, delta)
	}

	item, ok := c.State.Get(productID)
	if !ok {
		return ErrNotInCart
	}
	return c.adjustRemote(ctx, item.ID, op)
}

func (c *Client) adjustRemote(ctx context.Context, lineID string, op service.Operation) error {
	req := transport.AdjustQuantityRequest{Operation: string(op)}
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+lineID, req, nil); err != nil {
		return err
	}
	return c.reloadOrders(ctx)
}

func (c *Client) Remove(ctx context.Context, productID int) error {
	if !c.Authenticated() {
		return c.State.Remove(productID)
	}

	item, ok := c.State.Get(productID)
	if !ok {
		return ErrNotInCart
	}
	if err := c.do(ctx, http.MethodDelete, "/api/orders/"+item.ID, nil, nil); err != nil {
		return err
	}
	return c.reloadOrders(ctx)
}

func (c *Client) Clear(ctx context.Context) error {
	if c.Authenticated() {
		if err := c.do(ctx, http.MethodDelete, "/api/orders", nil, nil); err != nil {
			return err
		}
	}
	c.State.Empty()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			c.authed.Store(false)
		}
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		return &APIError{Status: resp.StatusCode, Message: msg.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
