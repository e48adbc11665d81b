package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/nihongo/internal/client/models"
)

// API is the subset of the server the session manager and history recorder
// depend on.
type API interface {
	Register(ctx context.Context, username, password, apiKey string) (*models.Session, error)
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Resume(ctx context.Context, token string) (*models.Session, error)
	Logout(ctx context.Context, token string) error
	RecordHistory(ctx context.Context, token string, entry models.NewStudyLog) error
	FetchHistory(ctx context.Context, token, userID string) ([]models.StudyLog, error)
	ExportHistory(ctx context.Context, token, userID string) (*models.Export, error)
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Register(ctx context.Context, username, password, apiKey string) (*models.Session, error) {
	body := map[string]string{"username": username, "password": password, "apiKey": apiKey}
	var out models.Session
	if err := c.do(ctx, http.MethodPost, "/register", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.Session, error) {
	body := map[string]string{"username": username, "password": password}
	var out models.Session
	if err := c.do(ctx, http.MethodPost, "/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Resume(ctx context.Context, token string) (*models.Session, error) {
	var out models.Session
	if err := c.do(ctx, http.MethodGet, "/session", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/logout", token, nil, nil)
}

func (c *HTTPClient) RecordHistory(ctx context.Context, token string, entry models.NewStudyLog) error {
	return c.do(ctx, http.MethodPost, "/history", token, entry, nil)
}

func (c *HTTPClient) FetchHistory(ctx context.Context, token, userID string) ([]models.StudyLog, error) {
	var out []models.StudyLog
	path := "/history?" + url.Values{"userId": {userID}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ExportHistory(ctx context.Context, token, userID string) (*models.Export, error) {
	var out models.Export
	if err := c.do(ctx, http.MethodPost, "/history/export", token, map[string]string{"user_id": userID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == "" {
		payload.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
}
