package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"tendersdz/models"
)

// ErrUnauthorized - бэкенд отклонил токен (401)
var ErrUnauthorized = errors.New("unauthorized")

// TransportError - ответ не получен
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: backend unavailable: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError - ответ с кодом не из 2xx
type ServerError struct {
	StatusCode int
	// Detail - сообщение бэкенда, показывается пользователю как есть
	Detail string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// AuthError - ответ 401
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail != "" {
		return "unauthorized: " + e.Detail
	}
	return "unauthorized"
}

func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// UserMessage возвращает текст для уведомления: сообщение бэкенда,
// если оно есть, иначе fallback
func UserMessage(err error, fallback string) string {
	var (
		serverErr *ServerError
		authErr   *AuthError
		validErr  *models.ValidationError
	)
	switch {
	case errors.As(err, &validErr):
		return validErr.Error()
	case errors.As(err, &authErr) && authErr.Detail != "":
		return authErr.Detail
	case errors.As(err, &serverErr) && serverErr.Detail != "":
		return serverErr.Detail
	}
	return fallback
}

// Expected - ошибка ожидаемого вида (валидация, ответ бэкенда);
// остальные стоит писать в лог
func Expected(err error) bool {
	var (
		serverErr *ServerError
		validErr  *models.ValidationError
	)
	return errors.Is(err, ErrUnauthorized) || errors.As(err, &serverErr) || errors.As(err, &validErr)
}

const maxPlainDetail = 300

// errorBody - варианты тел ошибок бэкенда
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// extractDetail достает сообщение об ошибке из тела ответа
func extractDetail(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		// не JSON: короткий текст показываем как есть
		if utf8.ValidString(trimmed) && len(trimmed) <= maxPlainDetail && !strings.HasPrefix(trimmed, "<") {
			return trimmed
		}
		return ""
	}

	if len(eb.Detail) > 0 {
		var s string
		if err := json.Unmarshal(eb.Detail, &s); err == nil {
			return s
		}
		// ошибки валидации бэкенда: [{"loc": [...], "msg": "..."}]
		var list []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(eb.Detail, &list); err == nil {
			msgs := make([]string, 0, len(list))
			for _, item := range list {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	if eb.Error != "" {
		return eb.Error
	}
	return eb.Message
}
