package chat

import (
	"errors"
	"net/http"
)

// HTTPStatus maps a service error to the status code handlers respond with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrProfileRequired),
		errors.Is(err, ErrProfileNotFound),
		errors.Is(err, ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, ErrReplyPending), errors.Is(err, ErrNoPendingReply):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
