// Package integration implements the external-system collaborator: a
// generic HTTP call helper plus named helpers for CRM lookups, calendar
// checks, email/SMS dispatch, Slack notifications and webhooks. Every
// failure is returned as a structured core.IntegrationResult; transport
// errors never escape as Go errors past the agent boundary.
package integration
