// Package apperror membedakan penolakan validasi, penolakan guard dan data
// yang tidak ditemukan supaya controller bisa memilih status HTTP.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindGuard
	KindNotFound
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Guard menandai penolakan yang wajar akibat balapan UI, misalnya klik ganda.
func Guard(format string, args ...any) error {
	return &Error{Kind: KindGuard, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsValidation(err error) bool { return kindOf(err) == KindValidation }
func IsGuard(err error) bool      { return kindOf(err) == KindGuard }
func IsNotFound(err error) bool   { return kindOf(err) == KindNotFound }

// HTTPStatus memetakan error ke status HTTP untuk respons controller.
func HTTPStatus(err error) int {
	switch kindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindGuard:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
