package utils

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// PosthogClientWrapper wraps the PostHog client with a logger so callers can
// enqueue events without checking initialization state themselves.
type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

// InitializePosthogClient creates a PostHog client from the given API key.
// When the key is empty, analytics are disabled and a no-op wrapper is
// returned.
func InitializePosthogClient(apiKey string, logger *slog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Warn("PostHog API key not provided, analytics disabled")
		return &PosthogClientWrapper{logger: logger}
	}

	client, err := posthog.NewWithConfig(apiKey, posthog.Config{
		Endpoint: "https://eu.i.posthog.com",
	})
	if err != nil {
		logger.Error("Failed to initialize PostHog client", slog.String("error", err.Error()))
		return &PosthogClientWrapper{logger: logger}
	}

	logger.Info("PostHog client initialized")
	return &PosthogClientWrapper{posthogClient: client, logger: logger}
}

// IsInitialized reports whether the underlying PostHog client is available.
func (p *PosthogClientWrapper) IsInitialized() bool {
	return p != nil && p.posthogClient != nil
}

// Enqueue sends a capture event for the given distinct ID. Failures are
// logged and otherwise ignored.
func (p *PosthogClientWrapper) Enqueue(distinctID, event string, properties map[string]any) {
	if !p.IsInitialized() {
		return
	}

	props := posthog.NewProperties()
	for key, value := range properties {
		props.Set(key, value)
	}

	if err := p.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: props,
	}); err != nil {
		p.logger.Error("Failed to enqueue PostHog event",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
	}
}

// Close flushes and shuts down the PostHog client.
func (p *PosthogClientWrapper) Close() {
	if !p.IsInitialized() {
		return
	}
	if err := p.posthogClient.Close(); err != nil {
		p.logger.Error("Failed to close PostHog client", slog.String("error", err.Error()))
	}
}
