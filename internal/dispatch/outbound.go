package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Vovarama1992/auv-mission-bridge/internal/vehicle"
)

// GatewayOutbound pushes accepted mission documents to the vehicle gateway.
// Execution of the mission is the vehicle's business; this only delivers it.
type GatewayOutbound struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewGatewayOutbound(baseURL, token string, timeout time.Duration) *GatewayOutbound {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GatewayOutbound{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// Send posts the document to /vehicles/{id}/config.
func (c *GatewayOutbound) Send(ctx context.Context, vehicleID string, cfg vehicle.Config) error {
	return c.send(ctx, "/vehicles/"+url.PathEscape(vehicleID)+"/config", cfg)
}

func (c *GatewayOutbound) send(ctx context.Context, path string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		bytes.NewReader(b),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway error: %s body=%s", resp.Status, string(respBody))
	}

	return nil
}
