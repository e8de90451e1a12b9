package helpers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"milk-admin/src/logger"
)

// -----------------------------------------------------------------------------
// Error kinds
// -----------------------------------------------------------------------------

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindTimeout
	KindBadRequest
	KindMilkCollectionBlocked
	KindUnauthorized
	KindNotFound
	KindServer
	KindDecode
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindBadRequest:
		return "bad_request"
	case KindMilkCollectionBlocked:
		return "milk_collection_blocked"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type MilkAdminError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Cause      error
}

func (e *MilkAdminError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *MilkAdminError) Unwrap() error {
	return e.Cause
}

// MilkCollectionBlockedError is the 400 the backend returns when a cow may not be milked
// into the cooperative stock (sick, under treatment, withdrawal period).
type MilkCollectionBlockedError struct {
	MilkAdminError
	CowID        int64
	CowName      string
	HealthStatus string
	BlockedUntil *time.Time
	Suggestions  []string
}

func (e *MilkCollectionBlockedError) Error() string {
	msg := fmt.Sprintf("milk collection blocked for cow %d (%s)", e.CowID, e.HealthStatus)
	if e.BlockedUntil != nil {
		msg += " until " + e.BlockedUntil.Format("2006-01-02 15:04")
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

func NewError(kind ErrorKind, message string, cause error) *MilkAdminError {
	return &MilkAdminError{Kind: kind, Message: message, Cause: cause}
}

func NewValidationError(format string, args ...interface{}) *MilkAdminError {
	return &MilkAdminError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// -----------------------------------------------------------------------------
// Inspection
// -----------------------------------------------------------------------------

// KindOf walks the error chain and returns the first typed kind it finds.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var blocked *MilkCollectionBlockedError
	if errors.As(err, &blocked) {
		return KindMilkCollectionBlocked
	}
	var mae *MilkAdminError
	if errors.As(err, &mae) {
		return mae.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUnknown
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// UserMessage converts an error into a message suitable for showing in a UI.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var blocked *MilkCollectionBlockedError
	if errors.As(err, &blocked) {
		msg := blocked.Error()
		if len(blocked.Suggestions) > 0 {
			msg += ". " + strings.Join(blocked.Suggestions, "; ")
		}
		return msg
	}

	switch KindOf(err) {
	case KindNetwork:
		return "Cannot reach the server. Check your connection and try again."
	case KindTimeout:
		return "The server took too long to respond. Please try again."
	case KindUnauthorized:
		return "Invalid API key. Check the configured credentials."
	case KindNotFound:
		return "The requested record was not found."
	case KindServer:
		return "The server encountered an error. Please try again later."
	case KindDecode:
		return "The server returned an unexpected response."
	case KindBadRequest, KindValidation:
		var mae *MilkAdminError
		if errors.As(err, &mae) && mae.Message != "" {
			return mae.Message
		}
		return "The request was rejected."
	default:
		return err.Error()
	}
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

type ErrorHandler struct {
	Logger     *logger.Logger
	ErrorCount int
	LastError  error
	mu         sync.Mutex
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	if log == nil {
		log = logger.NewLogger(nil, "ErrorHandler")
	}
	return &ErrorHandler{Logger: log}
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) ResetErrorCount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ErrorCount = 0
	e.LastError = nil
}

// -----------------------------------------------------------------------------

// Handle logs err with its context and returns the user-facing message ("" for nil).
func (e *ErrorHandler) Handle(err error, context string) string {
	if err == nil {
		return ""
	}

	e.mu.Lock()
	e.ErrorCount++
	e.LastError = err
	e.mu.Unlock()

	switch KindOf(err) {
	case KindValidation, KindMilkCollectionBlocked, KindNotFound:
		e.Logger.Warning("%s: %v", context, err)
	default:
		e.Logger.Error("Error in %s: %v", context, err)
	}
	return UserMessage(err)
}

// Count returns the number of errors handled since the last reset.
func (e *ErrorHandler) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ErrorCount
}
