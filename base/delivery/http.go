package delivery

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/xerrors"

	"github.com/x-xyz/auctionhouse/domain"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

// ErrorStatus maps an error onto the http status reported for it
func ErrorStatus(err error) int {
	switch {
	case xerrors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case xerrors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case xerrors.Is(err, domain.ErrInvalidInput), xerrors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	case xerrors.Is(err, domain.ErrPreconditionViolated):
		return http.StatusConflict
	case xerrors.Is(err, domain.ErrCollaboratorFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// MakeJsonResp wraps data into the response envelope. An error as data replaces the given
// status with the one ErrorStatus reports, unless the error is unknown.
func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		if s := ErrorStatus(err); s != http.StatusInternalServerError {
			status = s
		}
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
