package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/slack-go/slack"

	"github.com/tywade1980/smart-incallservice/core"
)

const maxResponseBody = 64 * 1024

// Options configure the integration client. Empty endpoints disable the
// corresponding helper; calls against a disabled helper return a structured
// "not configured" failure.
type Options struct {
	HTTPClient *http.Client

	CRMEndpoint      string
	CalendarEndpoint string
	EmailEndpoint    string
	SMSEndpoint      string

	// SlackToken enables the Slack helper through the official client.
	SlackToken string

	Headers map[string]string
}

// Client implements core.IntegrationClient over HTTP and the Slack API.
type Client struct {
	http    *http.Client
	slack   *slack.Client
	opts    Options
	headers map[string]string
}

// NewClient constructs an integration client.
func NewClient(optFns ...func(o *Options)) *Client {
	opts := Options{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Headers:    map[string]string{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	c := &Client{http: opts.HTTPClient, opts: opts, headers: opts.Headers}
	if opts.SlackToken != "" {
		c.slack = slack.New(opts.SlackToken)
	}
	return c
}

// Call implements the generic HTTP escape hatch. The result is structured;
// a transport error populates Err and leaves OK false.
func (c *Client) Call(ctx context.Context, endpoint, method string, headers map[string]string, body []byte) core.IntegrationResult {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return failure(fmt.Sprintf("build request: %v", err))
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if len(body) > 0 && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return failure(fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return failure(fmt.Sprintf("read response: %v", err))
	}

	result := core.IntegrationResult{
		OK:         resp.StatusCode < 400,
		StatusCode: resp.StatusCode,
		Body:       string(data),
	}
	if !result.OK {
		result.Err = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
	return result
}

// LookupCRMContact implements core.IntegrationClient.
func (c *Client) LookupCRMContact(ctx context.Context, phoneNumber string) core.IntegrationResult {
	if c.opts.CRMEndpoint == "" {
		return failure("crm integration not configured")
	}
	result := c.Call(ctx, c.opts.CRMEndpoint+"?phone="+phoneNumber, http.MethodGet, nil, nil)
	if result.OK && result.Body != "" {
		var data map[string]any
		if err := json.Unmarshal([]byte(result.Body), &data); err == nil {
			result.Data = data
		}
	}
	return result
}

// CheckCalendar implements core.IntegrationClient.
func (c *Client) CheckCalendar(ctx context.Context, date string) core.IntegrationResult {
	if c.opts.CalendarEndpoint == "" {
		return failure("calendar integration not configured")
	}
	return c.Call(ctx, c.opts.CalendarEndpoint+"?date="+date, http.MethodGet, nil, nil)
}

// SendEmail implements core.IntegrationClient.
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) core.IntegrationResult {
	if c.opts.EmailEndpoint == "" {
		return failure("email integration not configured")
	}
	payload, _ := json.Marshal(map[string]string{"to": to, "subject": subject, "body": body})
	return c.Call(ctx, c.opts.EmailEndpoint, http.MethodPost, nil, payload)
}

// SendSMS implements core.IntegrationClient.
func (c *Client) SendSMS(ctx context.Context, to, message string) core.IntegrationResult {
	if c.opts.SMSEndpoint == "" {
		return failure("sms integration not configured")
	}
	payload, _ := json.Marshal(map[string]string{"to": to, "message": message})
	return c.Call(ctx, c.opts.SMSEndpoint, http.MethodPost, nil, payload)
}

// SendSlackMessage implements core.IntegrationClient through the official
// Slack client.
func (c *Client) SendSlackMessage(ctx context.Context, channel, message string) core.IntegrationResult {
	if c.slack == nil {
		return failure("slack integration not configured")
	}
	_, ts, err := c.slack.PostMessageContext(ctx, channel, slack.MsgOptionText(message, false))
	if err != nil {
		return failure(fmt.Sprintf("slack post: %v", err))
	}
	return core.IntegrationResult{OK: true, Data: map[string]any{"timestamp": ts, "channel": channel}}
}

// TriggerWebhook implements core.IntegrationClient.
func (c *Client) TriggerWebhook(ctx context.Context, url string, payload map[string]any) core.IntegrationResult {
	body, err := json.Marshal(payload)
	if err != nil {
		return failure(fmt.Sprintf("encode payload: %v", err))
	}
	return c.Call(ctx, url, http.MethodPost, nil, body)
}

func failure(msg string) core.IntegrationResult {
	return core.IntegrationResult{OK: false, Err: msg}
}
