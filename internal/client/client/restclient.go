package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/client/models"
	"github.com/dmitrijs2005/geokeeper/internal/common"
)

// RESTClient implements Client over the origin's HTTP/JSON API.
//
// A token pair obtained by Login is attached to subsequent requests. When
// the origin rejects a call because the access token expired, the client
// transparently rotates the pair via the refresh endpoint and retries the
// call once.
type RESTClient struct {
	baseURL string
	httpc   *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// NewRESTClient returns a client for the origin at baseURL. The timeout
// bounds every request including body read.
func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type pingResponse struct {
	Status string `json:"status"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type flagUploadRequest struct {
	Name string `json:"name"`
}

type flagUploadResponse struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *RESTClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()
	if token != "" {
		req.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)
	}

	return req, nil
}

// call performs a single request without the refresh retry. A nil out skips
// body decoding.
func (c *RESTClient) call(ctx context.Context, method, path string, in, out any) error {
	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return context.Canceled
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapStatus(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// callWithRefresh behaves like call but rotates the token pair and retries
// once when the origin reports an expired access token, so a long-lived
// session survives access-token expiry without re-prompting for credentials.
func (c *RESTClient) callWithRefresh(ctx context.Context, method, path string, in, out any) error {
	err := c.call(ctx, method, path, in, out)
	if !errors.Is(err, common.ErrTokenExpired) {
		return err
	}

	c.mu.Lock()
	rt := c.refreshToken
	c.mu.Unlock()
	if rt == "" {
		return ErrUnauthorized
	}

	var pair tokenPair
	if err := c.call(ctx, http.MethodPost, "/api/v1/auth/refresh", refreshRequest{RefreshToken: rt}, &pair); err != nil {
		return err
	}
	c.SetTokens(pair.AccessToken, pair.RefreshToken)

	return c.call(ctx, method, path, in, out)
}

// mapStatus translates a non-2xx response into a sentinel error.
func (c *RESTClient) mapStatus(resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusUnauthorized:
		if body.Error == common.ErrTokenExpired.Error() {
			return common.ErrTokenExpired
		}
		return ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrorNotFound
	default:
		if body.Error != "" {
			return fmt.Errorf("request failed: %s", body.Error)
		}
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
}

// SetTokens installs a token pair, e.g. one restored from local storage.
func (c *RESTClient) SetTokens(access, refresh string) {
	c.mu.Lock()
	c.accessToken = access
	c.refreshToken = refresh
	c.mu.Unlock()
}

// Tokens returns the pair currently in use, empty strings when logged out.
func (c *RESTClient) Tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func (c *RESTClient) FetchAll(ctx context.Context) ([]models.Country, error) {
	var result []models.Country
	if err := c.call(ctx, http.MethodGet, "/api/v1/countries", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *RESTClient) Ping(ctx context.Context) error {
	var resp pingResponse
	if err := c.call(ctx, http.MethodGet, "/api/v1/ping", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *RESTClient) Login(ctx context.Context, username string, password string) error {
	var pair tokenPair
	err := c.call(ctx, http.MethodPost, "/api/v1/auth/login", loginRequest{Username: username, Password: password}, &pair)
	if err != nil {
		return err
	}
	c.SetTokens(pair.AccessToken, pair.RefreshToken)
	return nil
}

func (c *RESTClient) Logout() {
	c.SetTokens("", "")
}

func (c *RESTClient) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken != ""
}

func (c *RESTClient) PushDataset(ctx context.Context, items []models.Country) error {
	return c.callWithRefresh(ctx, http.MethodPut, "/api/v1/countries", items, nil)
}

func (c *RESTClient) RequestFlagUpload(ctx context.Context, countryName string) (string, error) {
	var resp flagUploadResponse
	err := c.callWithRefresh(ctx, http.MethodPost, "/api/v1/countries/flag", flagUploadRequest{Name: countryName}, &resp)
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *RESTClient) Close() error {
	c.httpc.CloseIdleConnections()
	return nil
}
