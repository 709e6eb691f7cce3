// Package backend is the typed client for the recruitment REST backend.
//
// Every endpoint answers with a {code, message, data} envelope. The client
// decodes it once and returns either the data or an error:
//
//   - transport failures wrap "backend unavailable"
//   - HTTP 401/403 return ErrUnauthorized
//   - refusals (non-success code or HTTP error) return *APIError
//   - unreadable bodies wrap "decode backend response"
//
// Only GET requests are retried. Creates are never replayed so a slow
// backend cannot produce duplicate candidates.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/hireboard/internal/config"
	"github.com/JonMunkholm/hireboard/internal/core"
	"github.com/go-resty/resty/v2"
)

const (
	retryWaitTime    = 200 * time.Millisecond
	retryMaxWaitTime = 2 * time.Second
)

// Client talks to the backend without credentials. Use As to act for a
// logged-in user.
type Client struct {
	http *resty.Client
}

// New creates a Client for cfg.BaseURL.
func New(cfg config.BackendConfig) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(retryWaitTime).
		SetRetryMaxWaitTime(retryMaxWaitTime).
		SetHeader("Accept", "application/json").
		AddRetryCondition(retryIdempotent)

	return &Client{http: rc}
}

// retryIdempotent retries GETs on transport errors and 5xx answers.
func retryIdempotent(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
		return false
	}
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	return resp.StatusCode() >= http.StatusInternalServerError
}

// Login exchanges credentials for a token. A "Bearer " prefix on the
// returned token is stripped.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginData, error) {
	req := c.http.R().SetBody(map[string]string{
		"email":    email,
		"password": password,
	})

	data, err := do[LoginData](ctx, req, http.MethodPost, "/auth/login", "login")
	if err != nil {
		var apiErr *APIError
		switch {
		case errors.Is(err, ErrUnauthorized):
			return nil, fmt.Errorf("login: %w", ErrInvalidCredentials)
		case errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError:
			return nil, fmt.Errorf("login: %w: %s", ErrInvalidCredentials, apiErr.Message)
		}
		return nil, err
	}

	data.Token = strings.TrimSpace(data.Token)
	if len(data.Token) > 7 && strings.EqualFold(data.Token[:7], "bearer ") {
		data.Token = strings.TrimSpace(data.Token[7:])
	}
	if data.Token == "" {
		return nil, errors.New("decode backend response: login returned no token")
	}
	return &data, nil
}

// As returns a client that authenticates every request with token.
func (c *Client) As(token string) *UserClient {
	return &UserClient{c: c, token: token}
}

// UserClient performs requests on behalf of one logged-in user.
type UserClient struct {
	c     *Client
	token string
}

var _ core.CandidateCreator = (*UserClient)(nil)

func (u *UserClient) req() *resty.Request {
	return u.c.http.R().SetAuthToken(u.token)
}

// AddCandidate creates a candidate and returns its backend ID.
func (u *UserClient) AddCandidate(ctx context.Context, rec core.CandidateRecord) (int64, error) {
	created, err := do[createdID](ctx, u.req().SetBody(rec), http.MethodPost, "/candidates/add", "create candidate")
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

// CreateCandidate implements core.CandidateCreator.
func (u *UserClient) CreateCandidate(ctx context.Context, rec core.CandidateRecord) error {
	_, err := u.AddCandidate(ctx, rec)
	return err
}

func (u *UserClient) Candidates(ctx context.Context) ([]Candidate, error) {
	return list[Candidate](ctx, u, "/candidates/get-all", "list candidates")
}

func (u *UserClient) Tickets(ctx context.Context) ([]Ticket, error) {
	return list[Ticket](ctx, u, "/ticket/get-all", "list tickets")
}

func (u *UserClient) Users(ctx context.Context) ([]User, error) {
	return list[User](ctx, u, "/auth/get-all", "list users")
}

func (u *UserClient) Companies(ctx context.Context) ([]Company, error) {
	return list[Company](ctx, u, "/company/get-all", "list companies")
}

func (u *UserClient) Departments(ctx context.Context) ([]Department, error) {
	return list[Department](ctx, u, "/department/get-all", "list departments")
}

func (u *UserClient) Roles(ctx context.Context) ([]Role, error) {
	return list[Role](ctx, u, "/role/get-all", "list roles")
}

func (u *UserClient) Menus(ctx context.Context) ([]Menu, error) {
	return list[Menu](ctx, u, "/menu/get-all-menus-with-submenus", "list menus")
}

// list fetches a collection. A null data field is an empty list.
func list[T any](ctx context.Context, u *UserClient, path, op string) ([]T, error) {
	items, err := do[[]T](ctx, u.req(), http.MethodGet, path, op)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// do executes req and returns the envelope's data.
func do[T any](ctx context.Context, req *resty.Request, method, path, op string) (T, error) {
	env, err := call[T](ctx, req, method, path, op)
	return env.Data, err
}

// call executes req and decodes the whole envelope, for endpoints whose
// message is meant for the user.
func call[T any](ctx context.Context, req *resty.Request, method, path, op string) (Result[T], error) {
	var zero Result[T]

	start := time.Now()
	resp, err := req.SetContext(ctx).Execute(method, path)
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		requestsTotal.WithLabelValues(op, "error").Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, fmt.Errorf("%s: %w", op, ctxErr)
		}
		return zero, fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
	}

	status := resp.StatusCode()
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		requestsTotal.WithLabelValues(op, "unauthorized").Inc()
		return zero, ErrUnauthorized
	}

	var env Result[T]
	decodeErr := json.Unmarshal(resp.Body(), &env)

	if status >= http.StatusBadRequest {
		requestsTotal.WithLabelValues(op, "rejected").Inc()
		apiErr := &APIError{Op: op, Status: status}
		if decodeErr == nil {
			apiErr.Code = env.Code
			apiErr.Message = env.Message
		}
		return zero, apiErr
	}

	if decodeErr != nil {
		requestsTotal.WithLabelValues(op, "error").Inc()
		return zero, fmt.Errorf("decode backend response: %s: %w", op, decodeErr)
	}

	if !env.OK() {
		requestsTotal.WithLabelValues(op, "rejected").Inc()
		return zero, &APIError{Op: op, Status: status, Code: env.Code, Message: env.Message}
	}

	requestsTotal.WithLabelValues(op, "ok").Inc()
	return env, nil
}
