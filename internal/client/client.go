package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmatos/fintrack-api-go/internal/domain"
	"github.com/dmatos/fintrack-api-go/internal/infra/cache"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
)

// categoriesTTL matches how long the catalog may be served stale: the
// catalog is static per server build, so five minutes is conservative.
const categoriesTTL = 5 * time.Minute

// Client talks to the API on behalf of one session. A 401 from any
// authenticated call clears the stored session so the next command
// prompts for login instead of retrying a dead token.
type Client struct {
	http       *resty.Client
	sessions   *SessionStore
	session    *Session
	categories *cache.InMemory[[]domain.Category]
}

// New creates a client against baseURL, loading any persisted session.
func New(baseURL string, sessions *SessionStore) (*Client, error) {
	session, err := sessions.Load()
	if err != nil {
		return nil, err
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:       httpClient,
		sessions:   sessions,
		session:    session,
		categories: cache.New[[]domain.Category](categoriesTTL),
	}, nil
}

// Session returns the current session state.
func (c *Client) Session() *Session {
	return c.session
}

type apiError struct {
	Error string `json:"error"`
}

// Register creates an account and stores the resulting session.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var out domain.RegisterResponse
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(domain.RegisterRequest{Name: name, Email: email, Password: password}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/auth/register")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("register failed: %s", apiErr.Error)
	}

	// Registration returns only the token; fetch the profile with it.
	c.session = &Session{Token: out.Token, IsAuthenticated: true}
	profile, err := c.Profile(ctx)
	if err != nil {
		return nil, err
	}
	c.session.User = profile

	if err := c.sessions.Save(c.session); err != nil {
		return nil, err
	}
	return c.session, nil
}

// Login authenticates and stores the resulting session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out domain.LoginResponse
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(domain.LoginRequest{Email: email, Password: password}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/auth/login")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("login failed: %s", apiErr.Error)
	}

	c.session = &Session{User: out.User, Token: out.Token, IsAuthenticated: true}
	if err := c.sessions.Save(c.session); err != nil {
		return nil, err
	}
	return c.session, nil
}

// Logout discards the local session. Tokens are stateless so there is
// nothing to revoke server-side; dropping the file is enough.
func (c *Client) Logout() error {
	c.session = &Session{}
	return c.sessions.Clear()
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*domain.Profile, error) {
	var out domain.Profile
	if err := c.authedGet(ctx, "/api/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTransactions fetches the user's transactions, newest first.
func (c *Client) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	var out []domain.Transaction
	if err := c.authedGet(ctx, "/api/transactions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTransaction records a new transaction.
func (c *Client) CreateTransaction(ctx context.Context, req *domain.CreateTransactionRequest) (*domain.Transaction, error) {
	var out domain.Transaction
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.session.Token).
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/transactions")
	if err != nil {
		return nil, err
	}
	if err := c.checkError(resp, &apiErr); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTransaction applies a partial update to an owned transaction.
func (c *Client) UpdateTransaction(ctx context.Context, id string, req *domain.UpdateTransactionRequest) (*domain.Transaction, error) {
	var out domain.Transaction
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.session.Token).
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Put("/api/transactions/" + id)
	if err != nil {
		return nil, err
	}
	if err := c.checkError(resp, &apiErr); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTransaction removes an owned transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.session.Token).
		SetError(&apiErr).
		Delete("/api/transactions/" + id)
	if err != nil {
		return err
	}
	return c.checkError(resp, &apiErr)
}

// MonthlySummary fetches the aggregated report for one month.
func (c *Client) MonthlySummary(ctx context.Context, month, year int) (*domain.MonthlySummary, error) {
	var out domain.MonthlySummary
	params := map[string]string{
		"month": fmt.Sprintf("%d", month),
		"year":  fmt.Sprintf("%d", year),
	}
	if err := c.authedGet(ctx, "/api/transactions/monthly-summary", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Categories fetches the catalog, serving a cached copy when fresh.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	if cached, ok := c.categories.Get("all"); ok {
		return cached, nil
	}

	var out []domain.Category
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiErr).
		Get("/api/categories")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("api error (%d): %s", resp.StatusCode(), apiErr.Error)
	}

	c.categories.Set("all", out)
	return out, nil
}

// Dashboard bundles everything the CLI summary view needs. The summary
// and the catalog are independent, so they are fetched concurrently.
type Dashboard struct {
	Summary    *domain.MonthlySummary
	Categories []domain.Category
}

// FetchDashboard loads a month's summary and the category catalog in
// parallel.
func (c *Client) FetchDashboard(ctx context.Context, month, year int) (*Dashboard, error) {
	var dash Dashboard

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := c.MonthlySummary(ctx, month, year)
		if err != nil {
			return err
		}
		dash.Summary = summary
		return nil
	})
	g.Go(func() error {
		categories, err := c.Categories(ctx)
		if err != nil {
			return err
		}
		dash.Categories = categories
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}

func (c *Client) authedGet(ctx context.Context, path string, params map[string]string, result any) error {
	var apiErr apiError

	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.session.Token).
		SetResult(result).
		SetError(&apiErr)
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		return err
	}
	return c.checkError(resp, &apiErr)
}

// checkError maps non-2xx responses to errors. A 401 also clears the
// persisted session: the stored token is dead, keeping it only produces
// the same failure on every subsequent command.
func (c *Client) checkError(resp *resty.Response, apiErr *apiError) error {
	if !resp.IsError() {
		return nil
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		c.session = &Session{}
		_ = c.sessions.Clear()
		return fmt.Errorf("session expired, please log in again: %s", apiErr.Error)
	}
	return fmt.Errorf("api error (%d): %s", resp.StatusCode(), apiErr.Error)
}
