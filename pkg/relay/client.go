package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/surtidoapp/procurement-backend/pkg/config"
	"github.com/surtidoapp/procurement-backend/pkg/logger"
)

var errBaseURLRequired = errors.New("relay base url is required")

// Client posts quote solicitations to the WhatsApp/email relay. Delivery is
// best effort; callers log failures and never surface them to the inbound
// transaction.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *logger.Logger
}

// SolicitationMessage is the payload the relay turns into an outbound
// supplier message.
type SolicitationMessage struct {
	SupplierID           string `json:"supplier_id"`
	SupplierName         string `json:"supplier_name"`
	Phone                string `json:"phone"`
	ProcurementRequestID string `json:"procurement_request_id"`
	ProductName          string `json:"product_name"`
	Quantity             int    `json:"quantity"`
	Urgency              string `json:"urgency"`
}

// NewClient initializes the relay wrapper and validates the configuration.
func NewClient(cfg config.RelayConfig, logg *logger.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		logger:     logg,
	}, nil
}

// SendSolicitation delivers one outbound quote request to the relay.
func (c *Client) SendSolicitation(ctx context.Context, msg SolicitationMessage) error {
	if c == nil || c.httpClient == nil {
		return errors.New("relay client not initialized")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding solicitation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting to relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("relay responded %d", resp.StatusCode)
	}
	return nil
}
