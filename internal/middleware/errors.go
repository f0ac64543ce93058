package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"devcamper/internal/apperr"
	"devcamper/internal/dto"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

// HTTPErrorHandler 將 handler 回傳的錯誤統一轉成 {success:false, error}
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, msg := resolve(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, dto.HTTPError{Success: false, Error: msg})
	}
	if werr != nil {
		c.Logger().Error(werr)
	}
}

func resolve(err error) (int, string) {
	var verrs validator.ValidationErrors
	var herr *echo.HTTPError

	if e, ok := apperr.As(err); ok {
		return e.Kind.Status(), e.Message
	}
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest, validationMessage(verrs)
	case mongo.IsDuplicateKeyError(err):
		return http.StatusBadRequest, "Duplicate field value entered"
	case errors.As(err, &herr):
		if herr.Internal != nil {
			if e, ok := apperr.As(herr.Internal); ok {
				return e.Kind.Status(), e.Message
			}
		}
		return herr.Code, fmt.Sprint(herr.Message)
	default:
		return http.StatusInternalServerError, "Server Error"
	}
}

func validationMessage(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("Please add a %s", strings.ToLower(fe.Field())))
		case "career", "oneof":
			msgs = append(msgs, fmt.Sprintf("%q is not a valid %s", fe.Value(), strings.ToLower(fe.Field())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, ", ")
}
