// Package push delivers best-effort device notifications through FCM.
//
// Push failures are never load-bearing: callers log the returned error and
// move on. The error return (rather than swallowing inside this package)
// keeps that decision visible at the call site.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrNoToken is returned when the target user has no registered device
// token. Callers treat it the same as any other push failure.
var ErrNoToken = errors.New("no device token registered")

// Notification is the payload delivered to a device.
type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers a notification to the device identified by token.
type Sender interface {
	Send(ctx context.Context, token string, n Notification) error
}

// FCMSender posts notifications to an FCM-compatible HTTP endpoint.
type FCMSender struct {
	endpoint  string
	serverKey string
	client    *http.Client
	log       *zap.Logger
}

// NewFCMSender constructs an FCMSender. An empty endpoint disables
// delivery (every Send fails with an explanatory error, which callers
// already treat as best-effort).
func NewFCMSender(endpoint, serverKey string, logger *zap.Logger) *FCMSender {
	return &FCMSender{
		endpoint:  endpoint,
		serverKey: serverKey,
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       logger,
	}
}

type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send posts the notification. Returns ErrNoToken for an empty token.
func (s *FCMSender) Send(ctx context.Context, token string, n Notification) error {
	if token == "" {
		return ErrNoToken
	}
	if s.endpoint == "" {
		return errors.New("push disabled: no FCM endpoint configured")
	}

	payload, err := json.Marshal(fcmMessage{
		To:           token,
		Notification: fcmNotification{Title: n.Title, Body: n.Body},
		Data:         n.Data,
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.serverKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("push transport: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push rejected: status %d: %s", resp.StatusCode, body)
	}

	s.log.Debug("push notification sent", zap.String("title", n.Title))
	return nil
}
