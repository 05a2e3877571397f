// pkg/common/errors/errors.go

/*
  - 使用实例
    // 业务层返回分类错误:
    return errors.NotFound("user")

    // Web 层按分类映射 HTTP 状态码:
    status := errors.StatusOf(err)
*/
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failure for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
	KindAlreadyCommitted
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAlreadyCommitted:
		return "already_committed"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is the typed error every service returns. Message is safe to show to
// clients; Err carries the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Fields  []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// 预定义错误
var (
	ErrInvalidCredentials = &Error{Kind: KindAuth, Message: "Invalid credentials."}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "User not found."}
	ErrNeedNotFound       = &Error{Kind: KindNotFound, Message: "Need not found."}
	ErrDuplicateEntry     = &Error{Kind: KindConflict, Message: "Duplicate entry."}
	ErrEmailTaken         = &Error{Kind: KindConflict, Message: "Email already registered."}
	ErrAlreadyCommitted   = &Error{Kind: KindAlreadyCommitted, Message: "Already committed to this need."}
	ErrNeedFulfilled      = &Error{Kind: KindConflict, Message: "Need is already fulfilled."}
	ErrDatabaseInternal   = errors.New("database internal error")
)

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// MissingFields reports every absent required field at once.
func MissingFields(fields ...string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "Missing required fields: " + strings.Join(fields, ", ") + ".",
		Fields:  fields,
	}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

func Unavailable(msg string, cause error) *Error {
	return &Error{Kind: KindUnavailable, Message: msg, Err: cause}
}

func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "Server error.", Err: cause}
}

// KindOf returns KindInternal for errors outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusOf maps an error to its HTTP status code.
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindAlreadyCommitted:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage never leaks internal detail.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Server error."
}
