package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"
)

// AppError представляет доменную ошибку приложения.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap возвращает обёрнутую ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.cause
}

// NewError создаёт новую доменную ошибку.
func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError оборачивает существующую ошибку с доменным контекстом.
func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

// IsAppError проверяет, является ли ошибка доменной.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode извлекает код ошибки, если это AppError.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// HasCode сообщает, содержит ли цепочка ошибок AppError с указанным кодом.
// Проверяется вся цепочка, а не только внешний AppError.
func HasCode(err error, code failure.ErrorCode) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.cause
	}
	return false
}

// UpstreamFailure описывает неуспешный ответ внешнего источника.
type UpstreamFailure struct {
	Status      int
	BodyExcerpt string
	Err         error
}

func (u *UpstreamFailure) Error() string {
	switch {
	case u.Err != nil && u.Status == 0:
		return u.Err.Error()
	case u.Err != nil && u.BodyExcerpt != "":
		return fmt.Sprintf("status %d: %v: %s", u.Status, u.Err, u.BodyExcerpt)
	case u.Err != nil:
		return fmt.Sprintf("status %d: %v", u.Status, u.Err)
	case u.BodyExcerpt != "":
		return fmt.Sprintf("status %d: %s", u.Status, u.BodyExcerpt)
	default:
		return fmt.Sprintf("status %d", u.Status)
	}
}

func (u *UpstreamFailure) Unwrap() error {
	return u.Err
}
