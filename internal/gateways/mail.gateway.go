package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/openfleet/shipping-gateway/pkg/logger"
	"github.com/valyala/fasthttp"
)

var ErrProviderUnavailable = errors.New("mail provider unavailable")

type DeliveryStatus string

const (
	StatusAccepted DeliveryStatus = "ACCEPTED"
	StatusFailed   DeliveryStatus = "FAILED"
)

// Request/Response types
type SendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type SendEmailResponse struct {
	MessageID  string         `json:"message_id"`
	Status     DeliveryStatus `json:"status"`
	AcceptedAt *time.Time     `json:"accepted_at,omitempty"`
	ErrorCode  string         `json:"error_code,omitempty"`
	ErrorMsg   string         `json:"error_message,omitempty"`
}

// MailMetrics tracks provider request outcomes.
type MailMetrics struct {
	TotalRequests  atomic.Int64
	SuccessfulReqs atomic.Int64
	FailedReqs     atomic.Int64
	TotalLatencyMs atomic.Int64
	LastLatencyMs  atomic.Int64
}

func (m *MailMetrics) RecordSuccess(latencyMs int64) {
	m.TotalRequests.Add(1)
	m.SuccessfulReqs.Add(1)
	m.TotalLatencyMs.Add(latencyMs)
	m.LastLatencyMs.Store(latencyMs)
}

func (m *MailMetrics) RecordFailure() {
	m.TotalRequests.Add(1)
	m.FailedReqs.Add(1)
}

func (m *MailMetrics) AvgLatencyMs() int64 {
	total := m.TotalRequests.Load()
	if total == 0 {
		return 0
	}
	return m.TotalLatencyMs.Load() / total
}

func (m *MailMetrics) SuccessRate() float64 {
	total := m.TotalRequests.Load()
	if total == 0 {
		return 1.0
	}
	return float64(m.SuccessfulReqs.Load()) / float64(total)
}

type Config struct {
	URL             string
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	MaxConns        int
	ReadBufferSize  int
	WriteBufferSize int
}

type MailClient struct {
	config  *Config
	client  *fasthttp.Client
	metrics *MailMetrics
}

func NewMailClient(config *Config) (*MailClient, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.URL == "" {
		return nil, errors.New("provider URL is required")
	}

	httpClient := &fasthttp.Client{
		MaxConnsPerHost:     config.MaxConns,
		ReadTimeout:         config.Timeout,
		WriteTimeout:        config.Timeout,
		MaxIdleConnDuration: 60 * time.Second,
		ReadBufferSize:      config.ReadBufferSize,
		WriteBufferSize:     config.WriteBufferSize,
	}

	logger.Info("Mail client initialized", "url", config.URL, "timeout", config.Timeout)

	return &MailClient{
		config:  config,
		client:  httpClient,
		metrics: &MailMetrics{},
	}, nil
}

func (c *MailClient) Metrics() *MailMetrics {
	return c.metrics
}

// SendEmail submits an email to the provider, retrying transient failures.
func (c *MailClient) SendEmail(ctx context.Context, req *SendEmailRequest) (*SendEmailResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		startTime := time.Now()
		response, err := c.doRequest(ctx, "POST", "/api/v1/mail/send", reqBody)
		latency := time.Since(startTime).Milliseconds()

		if err != nil {
			c.metrics.RecordFailure()
			logger.Warn("Mail request failed, retrying", "error", err, "attempt", attempt+1)
			lastErr = err
			continue
		}

		c.metrics.RecordSuccess(latency)

		var resp SendEmailResponse
		if err := json.Unmarshal(response, &resp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}

		logger.Info("Email submitted to provider", "to", req.To, "status", string(resp.Status), "latency_ms", latency)

		return &resp, nil
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

// doRequest performs HTTP request with timeout
func (c *MailClient) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	url := c.config.URL + path
	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")

	if body != nil {
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.config.Timeout)
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode != fasthttp.StatusOK && statusCode != fasthttp.StatusAccepted {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", statusCode, resp.Body())
	}

	result := make([]byte, len(resp.Body()))
	copy(result, resp.Body())

	return result, nil
}
