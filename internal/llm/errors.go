package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

var (
	ErrEmptyResponse = errors.New("пустой ответ от OpenAI")
	ErrRateLimited   = errors.New("превышен лимит запросов")
)

type ErrorType int

const (
	ErrorTypeAPI ErrorType = iota
	ErrorTypeAuth
	ErrorTypeNetwork
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeAPI:
		return "api"
	case ErrorTypeAuth:
		return "auth"
	case ErrorTypeNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error - ошибка обращения к модели с классом причины.
type Error struct {
	Type ErrorType
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("llm (%s): %v", e.Type, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func classifyError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if isAuthStatus(apiErr.HTTPStatusCode) {
			return &Error{Type: ErrorTypeAuth, Err: err}
		}
		return &Error{Type: ErrorTypeAPI, Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if isAuthStatus(reqErr.HTTPStatusCode) {
			return &Error{Type: ErrorTypeAuth, Err: err}
		}
		return &Error{Type: ErrorTypeAPI, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Type: ErrorTypeNetwork, Err: err}
	}

	return &Error{Type: ErrorTypeAPI, Err: err}
}

func isAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsAuth сообщает, что ошибка вызвана неверным или отсутствующим ключом.
func IsAuth(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrorTypeAuth
}

func IsNetwork(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrorTypeNetwork
}
