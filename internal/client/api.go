// Package client implements the desktop front end: a thin HTTP API client,
// an immutable view-model, and the fyne UI that renders it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"vista/internal/summary"
)

// APIClient talks to the backend. Every call blocks the caller and fails
// within the configured timeout; callers turn errors into inline status
// messages.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type LoginResult struct {
	Success  bool   `json:"success"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

type HistoryEntry struct {
	ID   uint      `json:"id"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Login authenticates and remembers the issued token for later calls.
func (c *APIClient) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal login request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build login request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result LoginResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	c.token = result.Token
	return &result, nil
}

// Logout revokes the current token server-side and forgets it locally.
func (c *APIClient) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/logout", nil)
	if err != nil {
		return fmt.Errorf("build logout request failed: %w", err)
	}
	c.authorize(req)

	if err := c.do(req, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// Upload sends one CSV file and returns the computed summary.
func (c *APIClient) Upload(ctx context.Context, fileName string, r io.Reader) (*summary.Summary, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("build multipart body failed: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("read file failed: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("build upload request failed: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	var result summary.Summary
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// History fetches the upload history, newest first.
func (c *APIClient) History(ctx context.Context) ([]HistoryEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/history", nil)
	if err != nil {
		return nil, fmt.Errorf("build history request failed: %w", err)
	}
	c.authorize(req)

	var entries []HistoryEntry
	if err := c.do(req, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *APIClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
}

// do executes the request, maps non-2xx bodies to their server-sent error
// message, and decodes a successful body into out when given.
func (c *APIClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}
