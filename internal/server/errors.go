package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// JSONErrorHandler converts every unhandled error, including echo's own
// 404/405 responses, into the ErrorResponse envelope so clients never see
// a bare text body.
func JSONErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = http.StatusText(he.Code)
		} else if log != nil {
			log.WithError(err).Warn("unhandled request error")
		}

		_ = c.JSON(code, ErrorResponse{Error: msg, Code: code})
	}
}
