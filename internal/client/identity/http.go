package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is an error response from the identity provider. Its message is
// shown to the user as-is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// HTTPClient calls the identity provider's HTTPS API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient constructs a provider client against baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type tokenResponse struct {
	IDToken string `json:"idToken"`
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*AuthenticationResult, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/signin", payload, &resp); err != nil {
		return nil, err
	}
	return ResultFromToken(resp.IDToken)
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password string) (*AuthenticationResult, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/signup", payload, &resp); err != nil {
		return nil, err
	}
	return ResultFromToken(resp.IDToken)
}

// SignInAnonymously starts a guest session. Guests have no provider account
// and no token; the provider call only registers the session server-side.
func (c *HTTPClient) SignInAnonymously(ctx context.Context) (*AuthenticationResult, error) {
	if err := c.doJSON(ctx, http.MethodPost, "/v1/guest", nil, nil); err != nil {
		return nil, err
	}
	return &AuthenticationResult{IsAnonymous: true}, nil
}

func (c *HTTPClient) SendOTP(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/v1/otp/send", payload, nil)
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, email, code string) (*AuthenticationResult, error) {
	payload := map[string]string{"email": email, "code": code}
	var resp tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/otp/verify", payload, &resp); err != nil {
		return nil, err
	}
	return ResultFromToken(resp.IDToken)
}

func (c *HTTPClient) SignInWithProvider(ctx context.Context, provider string) (*AuthenticationResult, error) {
	var resp tokenResponse
	path := fmt.Sprintf("/v1/oauth/%s", provider)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	return ResultFromToken(resp.IDToken)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Error
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
