// Package imgur is a small client for the Imgur image API: upload and
// delete, nothing else.
//
// Two modes:
//   - Anonymous: requests carry "Authorization: Client-ID <id>" and uploads
//     are capped at 10 MB.
//   - Account: with client secret + refresh token configured, requests carry
//     a Bearer token obtained through golang.org/x/oauth2 (refreshed
//     automatically when it expires) and the cap rises to 20 MB.
//
// Size and extension checks run before any network call, so an oversized or
// unsupported file never leaves the process.
package imgur

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/myboulders/api/internal/apperror"
)

const (
	defaultBaseURL = "https://api.imgur.com/3"
	tokenURL       = "https://api.imgur.com/oauth2/token"

	// MaxAnonymousSize is the upload ceiling without account credentials.
	MaxAnonymousSize = 10 << 20 // 10 MB
	// MaxAccountSize is the upload ceiling with account credentials.
	MaxAccountSize = 20 << 20 // 20 MB

	// Transient upstream failures (5xx) are retried with a fixed delay; no
	// exponential backoff.
	maxAttempts = 3

	requestTimeout = 30 * time.Second
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Image is the part of Imgur's upload response the application uses.
type Image struct {
	Link       string `json:"link"`
	DeleteHash string `json:"deletehash"`
}

// Client talks to the Imgur API. Construct with NewClient or
// NewClientWithAccount; the zero value is not usable.
type Client struct {
	clientID   string
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource // nil in anonymous mode
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewClient creates an anonymous Imgur client.
func NewClient(clientID string, logger *slog.Logger) *Client {
	return &Client{
		clientID:   clientID,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		retryDelay: time.Second,
		logger:     logger,
	}
}

// NewClientWithAccount creates a client authenticated as an Imgur account.
// The refresh token is exchanged for short-lived bearer tokens on demand;
// oauth2.TokenSource caches the current token and refreshes it when expired,
// so no package-level token state is needed.
func NewClientWithAccount(clientID, clientSecret, refreshToken string, logger *slog.Logger) *Client {
	c := NewClient(clientID, logger)

	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
	}
	c.tokens = cfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: refreshToken})
	return c
}

// HasAccount reports whether the client carries account credentials.
func (c *Client) HasAccount() bool {
	return c.tokens != nil
}

// MaxUploadSize is the active ceiling in bytes: 20 MB with account
// credentials, 10 MB anonymous.
func (c *Client) MaxUploadSize() int64 {
	if c.HasAccount() {
		return MaxAccountSize
	}
	return MaxAnonymousSize
}

// Upload sends an image to Imgur and returns its hosted link and delete
// hash. The filename drives the extension allow-list check; data is the raw
// file content.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (*Image, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, apperror.ValidationFailed("file",
			"unsupported file type, allowed: jpg, jpeg, png, gif")
	}
	if limit := c.MaxUploadSize(); int64(len(data)) > limit {
		return nil, apperror.ValidationFailed("file",
			fmt.Sprintf("file exceeds the %d MB upload limit", limit>>20))
	}

	form := url.Values{
		"image": {base64.StdEncoding.EncodeToString(data)},
		"type":  {"base64"},
		"name":  {filename},
	}

	body, err := c.doWithRetry(ctx, http.MethodPost, c.baseURL+"/image", form)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data    Image `json:"data"`
		Success bool  `json:"success"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperror.Upstream("imgur returned an unreadable response")
	}
	if !resp.Success || resp.Data.Link == "" {
		return nil, apperror.Upstream("imgur rejected the upload")
	}

	c.logger.Info("image uploaded to imgur", slog.String("link", resp.Data.Link))
	return &resp.Data, nil
}

// Delete removes a previously uploaded image by its delete hash.
func (c *Client) Delete(ctx context.Context, deleteHash string) error {
	deleteHash = strings.TrimSpace(deleteHash)
	if deleteHash == "" {
		return apperror.ValidationFailed("delete_hash", "delete hash is required")
	}

	_, err := c.doWithRetry(ctx, http.MethodDelete, c.baseURL+"/image/"+url.PathEscape(deleteHash), nil)
	if err != nil {
		return err
	}

	c.logger.Info("image deleted from imgur", slog.String("deleteHash", deleteHash))
	return nil
}

// doWithRetry performs one API call, retrying on 5xx responses up to
// maxAttempts with a fixed delay between attempts. Transport failures and
// non-5xx error statuses are returned immediately as upstream errors.
func (c *Client) doWithRetry(ctx context.Context, method, endpoint string, form url.Values) ([]byte, error) {
	var lastStatus int

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, apperror.Upstream("imgur request cancelled")
			}
		}

		body, status, err := c.do(ctx, method, endpoint, form)
		if err != nil {
			return nil, apperror.Upstream("imgur is unreachable")
		}

		switch {
		case status >= 200 && status < 300:
			return body, nil
		case status >= 500:
			lastStatus = status
			c.logger.Warn("imgur returned a server error, retrying",
				slog.Int("status", status),
				slog.Int("attempt", attempt),
			)
		default:
			return nil, apperror.Upstream(fmt.Sprintf("imgur returned status %d", status))
		}
	}

	return nil, apperror.Upstream(fmt.Sprintf("imgur returned status %d after %d attempts", lastStatus, maxAttempts))
}

func (c *Client) do(ctx context.Context, method, endpoint string, form url.Values) ([]byte, int, error) {
	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("imgur: building request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if err := c.authorize(req); err != nil {
		return nil, 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("imgur: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("imgur: reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// authorize attaches the right Authorization header: a refreshed bearer
// token in account mode, the registered client ID otherwise.
func (c *Client) authorize(req *http.Request) error {
	if c.tokens == nil {
		req.Header.Set("Authorization", "Client-ID "+c.clientID)
		return nil
	}

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("imgur: refreshing access token: %w", err)
	}
	token.SetAuthHeader(req)
	return nil
}
