package paystack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// VerificationResult is the distilled outcome of a transaction/verify call.
// Amount stays in minor units (kobo) exactly as the gateway reports it.
type VerificationResult struct {
	Succeeded  bool
	Reference  string
	Amount     int64
	Currency   string
	PaidAt     string
	RawPayload []byte
}

type verifyResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type verifyData struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PaidAt    string `json:"paid_at"`
}

type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// VerifyTransaction asks the gateway for the authoritative state of a
// transaction. An error return means the answer is unknown (network,
// timeout, gateway outage); callers must not treat that as a decline.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerificationResult, error) {
	endpoint := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, url.PathEscape(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	result := &VerificationResult{Reference: reference}
	if !body.Status || len(body.Data) == 0 {
		return result, nil
	}

	var data verifyData
	if err := json.Unmarshal(body.Data, &data); err != nil {
		return nil, fmt.Errorf("decode gateway data: %w", err)
	}

	result.Succeeded = data.Status == "success"
	result.Amount = data.Amount
	result.Currency = data.Currency
	result.PaidAt = data.PaidAt
	result.RawPayload = body.Data
	return result, nil
}
