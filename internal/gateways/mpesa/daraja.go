// Package mpesa is the outbound Daraja API client. It implements the
// MpesaGateway port; everything Daraja-specific (auth tokens, password
// derivation, request shapes) stays inside this package.
package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
	"github.com/vitabuhq/vitabu-backend/internal/middleware"
	"github.com/vitabuhq/vitabu-backend/pkg/config"
)

// Client talks to the Daraja STK push API. Access tokens are cached until
// shortly before expiry and refreshed under a mutex.
type Client struct {
	httpClient *http.Client
	baseURL    string

	consumerKey    string
	consumerSecret string
	shortcode      string
	passkey        string
	callbackURL    string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a Daraja client from application config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		baseURL:        cfg.MpesaBaseURL,
		consumerKey:    cfg.MpesaConsumerKey,
		consumerSecret: cfg.MpesaConsumerSecret,
		shortcode:      cfg.MpesaShortcode,
		passkey:        cfg.MpesaPasskey,
		callbackURL:    cfg.MpesaCallbackURL,
	}
}

var _ portssvc.MpesaGateway = (*Client)(nil)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	MerchantRequestID   string `json:"MerchantRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	ErrorMessage        string `json:"errorMessage"`
}

// InitiateStkPush prompts the payer's phone and returns the gateway's
// CheckoutRequestID.
func (c *Client) InitiateStkPush(ctx context.Context, params portssvc.StkPushParams) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	token, err := c.accessTokenFor(ctx)
	if err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString([]byte(c.shortcode + c.passkey + timestamp))

	// Daraja only accepts whole shilling amounts.
	payload := stkPushRequest{
		BusinessShortCode: c.shortcode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            params.Amount.Round(0).String(),
		PartyA:            params.PhoneNumber,
		PartyB:            c.shortcode,
		PhoneNumber:       params.PhoneNumber,
		CallBackURL:       c.callbackURL,
		AccountReference:  params.Reference,
		TransactionDesc:   params.Description,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode stk push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mpesa/stkpush/v1/processrequest", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("stk push request failed: %w", err)
	}
	defer resp.Body.Close()

	var result stkPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode stk push response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || result.ResponseCode != "0" {
		logger.Error("STK push rejected by gateway",
			"status", resp.StatusCode,
			"responseCode", result.ResponseCode,
			"description", result.ResponseDescription,
			"errorMessage", result.ErrorMessage,
		)
		return "", fmt.Errorf("stk push rejected: %s", result.ResponseDescription)
	}
	if result.CheckoutRequestID == "" {
		return "", fmt.Errorf("stk push response missing CheckoutRequestID")
	}

	return result.CheckoutRequestID, nil
}

// accessTokenFor returns a cached token or fetches a fresh one.
func (c *Client) accessTokenFor(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	expiresIn := 3600 * time.Second
	if d, err := time.ParseDuration(token.ExpiresIn + "s"); err == nil {
		expiresIn = d
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(expiresIn - time.Minute)
	return c.accessToken, nil
}
