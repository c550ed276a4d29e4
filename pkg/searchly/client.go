package searchly

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Known backend failure modes, recognised from the message field of non-2xx
// responses.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotRegistered  = errors.New("user not registered")
)

// Failure classes for calls that never produced a usable response.
var (
	// ErrUnreachable wraps transport failures: the backend could not be
	// reached or its response body could not be read.
	ErrUnreachable = errors.New("backend unreachable")
	// ErrBadResponse wraps 2xx responses whose body could not be decoded.
	ErrBadResponse = errors.New("undecodable backend response")
)

// Client is a minimal HTTP client for the Searchly recommendation backend.
// Every call is a single JSON POST: no retries, no backoff, no caching.
type Client struct {
	httpClient *http.Client
	baseURL    string
	debug      bool
}

// NewClient constructs a new backend client with sane defaults.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		debug:      os.Getenv("ENV") == "development",
	}
}

// Login authenticates an existing user.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	req := LoginRequest{Email: email, Password: password}
	var resp AuthResponse
	if err := c.doRequest(ctx, "/userlogin", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	req := RegisterRequest{User: RegisterUser{Name: name, Email: email, Password: password}}
	var resp AuthResponse
	if err := c.doRequest(ctx, "/userregister", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRecommendations fetches the recommended product list for a user. A
// response without a result field yields an empty list, not an error.
func (c *Client) GetRecommendations(ctx context.Context, email string) ([]ProductJSON, error) {
	req := EmailRequest{Email: email}
	var resp RecommendationsResponse
	if err := c.doRequest(ctx, "/get_recommendations", req, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// GetFavourites fetches the authoritative favourite set for a user. A user
// with no stored favourites is an empty list, not an error.
func (c *Client) GetFavourites(ctx context.Context, email string) ([]ProductJSON, error) {
	req := EmailRequest{Email: email}
	var resp FavouritesResponse
	if err := c.doRequest(ctx, "/get_favourites", req, &resp); err != nil {
		// The backend answers 404 for users who never favourited anything.
		if errors.Is(err, ErrUserNotRegistered) {
			return nil, nil
		}
		return nil, err
	}
	return resp.FavProducts, nil
}

// AddFavourite records a product as favourited and returns the updated set.
func (c *Client) AddFavourite(ctx context.Context, email string, product ProductJSON) ([]ProductJSON, error) {
	req := AddFavouriteRequest{Email: email, Product: product}
	var resp FavouritesResponse
	if err := c.doRequest(ctx, "/add_favourite", req, &resp); err != nil {
		return nil, err
	}
	return resp.FavProducts, nil
}

// RemoveFavourite removes a product (matched by url) from the favourite set
// and returns the updated set.
func (c *Client) RemoveFavourite(ctx context.Context, email, productURL string) ([]ProductJSON, error) {
	req := RemoveFavouriteRequest{Email: email, ProductURL: productURL}
	var resp FavouritesResponse
	if err := c.doRequest(ctx, "/remove_favourite", req, &resp); err != nil {
		return nil, err
	}
	return resp.FavProducts, nil
}

// Recommend asks the backend recommender for products matching a free-form
// query. fromDB selects the vector-store lookup over the live scrape.
func (c *Client) Recommend(ctx context.Context, email, query string, fromDB bool) (*RecommendResponse, error) {
	endpoint := "/recommend"
	if fromDB {
		endpoint = "/recommend_from_db"
	}
	req := RecommendRequest{Email: email, Query: query}
	var resp RecommendResponse
	if err := c.doRequest(ctx, endpoint, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doRequest performs the HTTP POST to the backend with JSON payloads and
// decodes the JSON response into result. Non-2xx responses are mapped onto
// the known failure modes where the message is recognised.
func (c *Client) doRequest(ctx context.Context, endpoint string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	// Debug logging for development
	if c.debug {
		log.Debug().
			Str("endpoint", c.baseURL+endpoint).
			RawJSON("request", payload).
			Msg("[SEARCHLY] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrUnreachable, err)
	}

	// Debug logging for development
	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[SEARCHLY] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.classifyError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

// classifyError maps a non-2xx response onto a known sentinel where the
// backend's message is recognised, and a generic error otherwise.
func (c *Client) classifyError(status int, body []byte) error {
	var er errorResponse
	_ = json.Unmarshal(body, &er)
	msg := er.Message
	if msg == "" {
		msg = er.Error
	}

	switch msg {
	case "Invalid Credentials":
		return ErrInvalidCredentials
	case "User Already Exists":
		return ErrUserExists
	case "User Not Registered", "No data found for the provided email":
		return ErrUserNotRegistered
	}
	if msg != "" {
		return fmt.Errorf("backend error (status %d): %s", status, msg)
	}
	return fmt.Errorf("backend error (status %d)", status)
}
