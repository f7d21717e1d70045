package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.twilio.com/2010-04-01"

// Client is a minimal Twilio REST client covering the operations this
// service needs: deleting provider-hosted messages and listing the account's
// incoming phone numbers.
type Client struct {
	accountSID string
	authToken  string
	baseURL    string
	http       *http.Client
}

func NewClient(accountSID, authToken string) *Client {
	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    defaultBaseURL,
		http:       &http.Client{Timeout: 15 * time.Second},
	}
}

// WithBaseURL overrides the API base URL. Used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// DeleteMessage removes a message (and its hosted media) from the provider.
func (c *Client) DeleteMessage(ctx context.Context, messageSID string) error {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages/%s.json", c.baseURL, c.accountSID, url.PathEscape(messageSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("delete message %s: HTTP %d: %s", messageSID, resp.StatusCode, body)
	}
	return nil
}

// IncomingPhoneNumber is one provisioned number on the account.
type IncomingPhoneNumber struct {
	SID          string `json:"sid"`
	PhoneNumber  string `json:"phone_number"`
	FriendlyName string `json:"friendly_name"`
}

// ListIncomingPhoneNumbers returns up to limit numbers provisioned on the
// account.
func (c *Client) ListIncomingPhoneNumbers(ctx context.Context, limit int) ([]IncomingPhoneNumber, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/IncomingPhoneNumbers.json?PageSize=%s",
		c.baseURL, c.accountSID, strconv.Itoa(limit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("list incoming phone numbers: HTTP %d: %s", resp.StatusCode, body)
	}

	var parsed struct {
		IncomingPhoneNumbers []IncomingPhoneNumber `json:"incoming_phone_numbers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode incoming phone numbers: %w", err)
	}
	return parsed.IncomingPhoneNumbers, nil
}
