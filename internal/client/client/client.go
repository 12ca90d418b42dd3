package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rajat290/notekeeper/internal/client/models"
	"github.com/rajat290/notekeeper/internal/common"
)

type Client interface {
	SetToken(token string)
	Ping(ctx context.Context) error
	Signup(ctx context.Context, name, email, password string) (*models.AuthResult, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Me(ctx context.Context) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password string) (string, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error)
	CreateNote(ctx context.Context, in models.NoteInput) (*models.Note, error)
	ListNotes(ctx context.Context, p models.ListParams) (*models.NotePage, error)
	GetNote(ctx context.Context, id string) (*models.Note, error)
	UpdateNote(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error)
	DeleteNote(ctx context.Context, id string) (string, error)
}

type RESTClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

var _ Client = (*RESTClient)(nil)

func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken sets the session token sent with every request; "" sends none.
func (c *RESTClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *RESTClient) Ping(ctx context.Context) error {
	var res struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/ping", nil, &res); err != nil {
		return err
	}
	if res.Status != "OK" {
		return fmt.Errorf("%w: status %q", ErrUnavailable, res.Status)
	}
	return nil
}

func (c *RESTClient) Signup(ctx context.Context, name, email, password string) (*models.AuthResult, error) {
	req := map[string]string{"name": name, "email": email, "password": password}
	var res models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *RESTClient) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	req := map[string]string{"email": email, "password": password}
	var res models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *RESTClient) Me(ctx context.Context) (*models.User, error) {
	var res models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *RESTClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.message(ctx, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": email})
}

func (c *RESTClient) ResetPassword(ctx context.Context, token, password string) (string, error) {
	return c.message(ctx, http.MethodPost, "/api/auth/reset-password/"+url.PathEscape(token),
		map[string]string{"password": password})
}

func (c *RESTClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error) {
	return c.message(ctx, http.MethodPost, "/api/auth/change-password",
		map[string]string{"currentPassword": currentPassword, "newPassword": newPassword})
}

func (c *RESTClient) CreateNote(ctx context.Context, in models.NoteInput) (*models.Note, error) {
	var res models.Note
	if err := c.do(ctx, http.MethodPost, "/api/notes", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *RESTClient) ListNotes(ctx context.Context, p models.ListParams) (*models.NotePage, error) {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}

	path := "/api/notes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var res models.NotePage
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *RESTClient) GetNote(ctx context.Context, id string) (*models.Note, error) {
	var res models.Note
	if err := c.do(ctx, http.MethodGet, "/api/notes/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *RESTClient) UpdateNote(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error) {
	var res models.Note
	if err := c.do(ctx, http.MethodPut, "/api/notes/"+url.PathEscape(id), patch, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *RESTClient) DeleteNote(ctx context.Context, id string) (string, error) {
	return c.message(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), nil)
}

type messageBody struct {
	Message string `json:"message"`
}

func (c *RESTClient) message(ctx context.Context, method, path string, in any) (string, error) {
	var res messageBody
	if err := c.do(ctx, method, path, in, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// do sends in as JSON (when not nil) and decodes a 2xx body into out.
func (c *RESTClient) do(ctx context.Context, method, path string, in, out any) error {
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
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var m messageBody
		_ = json.NewDecoder(resp.Body).Decode(&m)
		return &APIError{Status: resp.StatusCode, Message: m.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
