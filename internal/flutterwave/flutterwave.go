package flutterwave

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.flutterwave.com/v3"

// Service is the surface the handlers and workers depend on; tests swap in
// a mock implementation.
type Service interface {
	InitiateBvnConsent(ctx context.Context, input *BvnConsentInput) (*BvnConsent, error)
	CreateVirtualAccount(ctx context.Context, email, bvn string, permanent bool) (*VirtualAccount, error)
	Banks(ctx context.Context) ([]Bank, error)
	ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*ResolvedAccount, error)
}

// APIError carries the provider's own message so handlers can surface it
// to the client as a 400 instead of a generic 500.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("flutterwave: %s (status %d)", e.Message, e.StatusCode)
}

type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func New(secretKey string) *Client {
	return &Client{
		baseURL:   defaultBaseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type BvnConsentInput struct {
	Bvn         string `json:"bvn"`
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	RedirectURL string `json:"redirect_url"`
}

type BvnConsent struct {
	URL       string `json:"url"`
	Reference string `json:"reference"`
}

type VirtualAccount struct {
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	FlwRef        string `json:"flw_ref"`
	OrderRef      string `json:"order_ref"`
	CreatedAt     string `json:"created_at"`
}

type Bank struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type ResolvedAccount struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

// envelope is the provider's standard response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitiateBvnConsent starts the out-of-band consent flow. The returned URL
// is where the user completes identity proofing; the reference comes back
// later on the webhook.
func (c *Client) InitiateBvnConsent(ctx context.Context, input *BvnConsentInput) (*BvnConsent, error) {
	var consent BvnConsent
	err := c.do(ctx, http.MethodPost, "/bvn/verifications", input, &consent)
	if err != nil {
		return nil, err
	}

	return &consent, nil
}

func (c *Client) CreateVirtualAccount(ctx context.Context, email, bvn string, permanent bool) (*VirtualAccount, error) {
	body := map[string]any{
		"email":        email,
		"bvn":          bvn,
		"is_permanent": permanent,
	}

	var account VirtualAccount
	err := c.do(ctx, http.MethodPost, "/virtual-account-numbers", body, &account)
	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (c *Client) Banks(ctx context.Context) ([]Bank, error) {
	var banks []Bank
	err := c.do(ctx, http.MethodGet, "/banks/NG", nil, &banks)
	if err != nil {
		return nil, err
	}

	return banks, nil
}

func (c *Client) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*ResolvedAccount, error) {
	body := map[string]string{
		"account_number": accountNumber,
		"account_bank":   bankCode,
	}

	var account ResolvedAccount
	err := c.do(ctx, http.MethodPost, "/accounts/resolve", body, &account)
	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	var reqBody io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(js)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "unexpected response from provider"}
	}

	if resp.StatusCode >= 400 || env.Status != "success" {
		message := env.Message
		if message == "" {
			message = "request to payment provider failed"
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if dst != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, dst)
	}

	return nil
}
