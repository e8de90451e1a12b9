package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"milk-admin/src/helpers"
	"milk-admin/src/logger"
	"milk-admin/src/models"
)

// ErrorTypeMilkCollectionBlocked is the errorType the backend sets on the
// 400 returned when a cow may not be milked into stock.
const ErrorTypeMilkCollectionBlocked = "MILK_COLLECTION_BLOCKED"

type AsyncNetworkManager struct {
	Config  *models.MConfig
	BaseURL *url.URL
	Client  *http.Client
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAsyncNetworkManager(cfg *models.MConfig, log *logger.Logger) (*AsyncNetworkManager, error) {
	base, err := url.Parse(strings.TrimRight(cfg.Backend.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend base url: %w", err)
	}
	if log == nil {
		log = logger.NewLogger(cfg, "Network")
	}

	nm := &AsyncNetworkManager{
		Config:  cfg,
		BaseURL: base,
		Logger:  log,
	}
	nm.Client = nm.createClient()
	return nm, nil
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) createClient() *http.Client {
	timeout := nm.Config.Backend.RequestTimeout
	if timeout <= 0 {
		timeout = 30
	}
	return &http.Client{
		Timeout: time.Duration(timeout) * time.Second,
	}
}

// -----------------------------------------------------------------------------

// Do performs one backend call. GETs are retried up to Backend.MaxRetries
// times on network, timeout and 5xx failures. Mutations are never retried.
func (nm *AsyncNetworkManager) Do(ctx context.Context, method, path string, params map[string]string, body interface{}) ([]byte, error) {
	reqURL := nm.resolve(path, params)

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, helpers.NewError(helpers.KindValidation, "failed to encode request body", err)
		}
	}

	maxRetries := 0
	if method == http.MethodGet {
		maxRetries = nm.Config.Backend.MaxRetries
	}

	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			backoff := time.Duration(i*i) * 250 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, classifyTransportError(ctx.Err())
			}
		}

		data, err := nm.doOnce(ctx, method, reqURL, payload)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if !retryable(err) {
			break
		}
		if maxRetries > 0 {
			nm.Logger.Info("Request %s %s failed (attempt %d/%d): %v", method, path, i+1, maxRetries+1, err)
		}
	}
	return nil, lastErr
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) doOnce(ctx context.Context, method, reqURL string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, helpers.NewError(helpers.KindNetwork, "failed to build request", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set(nm.Config.Backend.APIKeyHeader, nm.Config.Backend.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := nm.Client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		nm.Logger.Debug("%s %s -> %d [%s]", method, req.URL.Path, resp.StatusCode, requestID)
		return data, nil
	}

	nm.Logger.Debug("%s %s -> %d [%s] %s", method, req.URL.Path, resp.StatusCode, requestID, truncate(data, 256))
	return nil, DecodeErrorResponse(resp.StatusCode, data)
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) resolve(path string, params map[string]string) string {
	u := *nm.BaseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")

	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// -----------------------------------------------------------------------------
// Error decoding
// -----------------------------------------------------------------------------

// DecodeErrorResponse maps a non-2xx response to a typed error. A 400 carrying
// the milk-collection-blocked shape becomes *helpers.MilkCollectionBlockedError.
func DecodeErrorResponse(status int, body []byte) error {
	var apiErr models.MAPIError
	_ = json.Unmarshal(body, &apiErr)

	message := apiErr.Message
	if message == "" {
		message = apiErr.Error
	}
	if message == "" {
		message = http.StatusText(status)
	}

	switch {
	case status == http.StatusBadRequest:
		if isBlocked(apiErr) {
			return newBlockedError(status, message, apiErr)
		}
		return &helpers.MilkAdminError{Kind: helpers.KindBadRequest, StatusCode: status, Message: message}
	case status == http.StatusUnauthorized:
		return &helpers.MilkAdminError{Kind: helpers.KindUnauthorized, StatusCode: status, Message: message}
	case status == http.StatusNotFound:
		return &helpers.MilkAdminError{Kind: helpers.KindNotFound, StatusCode: status, Message: message}
	case status >= 500:
		return &helpers.MilkAdminError{Kind: helpers.KindServer, StatusCode: status, Message: message}
	default:
		return &helpers.MilkAdminError{Kind: helpers.KindBadRequest, StatusCode: status, Message: message}
	}
}

func isBlocked(apiErr models.MAPIError) bool {
	if apiErr.ErrorType == ErrorTypeMilkCollectionBlocked {
		return true
	}
	return apiErr.CowID != nil && apiErr.HealthStatus != ""
}

func newBlockedError(status int, message string, apiErr models.MAPIError) *helpers.MilkCollectionBlockedError {
	blocked := &helpers.MilkCollectionBlockedError{
		MilkAdminError: helpers.MilkAdminError{
			Kind:       helpers.KindMilkCollectionBlocked,
			StatusCode: status,
			Message:    message,
		},
		CowName:      apiErr.CowName,
		HealthStatus: apiErr.HealthStatus,
		Suggestions:  apiErr.Suggestions,
	}
	if apiErr.CowID != nil {
		blocked.CowID = *apiErr.CowID
	}
	if t, ok := parseTimestamp(apiErr.BlockedUntil); ok {
		blocked.BlockedUntil = &t
	}
	return blocked
}

// parseTimestamp accepts RFC 3339, a zone-less ISO timestamp or a bare date.
func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", models.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// -----------------------------------------------------------------------------

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return helpers.NewError(helpers.KindTimeout, "request timed out", err)
	}
	return helpers.NewError(helpers.KindNetwork, "request failed", err)
}

func retryable(err error) bool {
	switch helpers.KindOf(err) {
	case helpers.KindNetwork, helpers.KindTimeout, helpers.KindServer:
		return true
	}
	return false
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
