package core

import "context"

// IntegrationResult is the structured outcome of an external call. Failures
// populate Err and leave OK false; integration collaborators never let
// transport errors escape as Go errors past the agent boundary.
type IntegrationResult struct {
	OK         bool           `json:"ok"`
	StatusCode int            `json:"status_code,omitempty"`
	Body       string         `json:"body,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	Err        string         `json:"error,omitempty"`
}

// IntegrationClient is the generic external-system collaborator used by the
// integration agent: one raw HTTP escape hatch plus named helpers for the
// systems the receptionist talks to.
type IntegrationClient interface {
	Call(ctx context.Context, endpoint, method string, headers map[string]string, body []byte) IntegrationResult

	LookupCRMContact(ctx context.Context, phoneNumber string) IntegrationResult
	CheckCalendar(ctx context.Context, date string) IntegrationResult
	SendEmail(ctx context.Context, to, subject, body string) IntegrationResult
	SendSMS(ctx context.Context, to, message string) IntegrationResult
	SendSlackMessage(ctx context.Context, channel, message string) IntegrationResult
	TriggerWebhook(ctx context.Context, url string, payload map[string]any) IntegrationResult
}
