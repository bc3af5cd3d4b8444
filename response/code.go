package response

import "net/http"

type ErrorCode int

const (
	OK ErrorCode = 0

	InvalidRequest ErrorCode = 40001
	NotFound       ErrorCode = 40401
	Conflict       ErrorCode = 40901
	TooManyRequest ErrorCode = 42901
	StorageFailure ErrorCode = 50001
)

// HTTPStatus is the status code sent along with an error code.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case OK:
		return http.StatusOK
	case InvalidRequest:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case TooManyRequest:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
