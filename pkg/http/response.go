package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes data as a raw 200 JSON body.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func NoContentResponse(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// AttachmentResponse writes body as a downloadable file.
func AttachmentResponse(c echo.Context, filename, contentType string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, contentType, body)
}

// ValidationErrorResponse writes errs as a 400 AppError. The first failure is the
// headline; with more than one, all are listed under params.errors.
func ValidationErrorResponse(c echo.Context, errs []ValidationError) error {
	appErr := BadRequestError("invalid request")
	if len(errs) > 0 {
		appErr.Code = errs[0].Code
		appErr.Message = errs[0].Message
		appErr.Field = errs[0].Field
		if len(errs) > 1 {
			appErr.WithParam("errors", errs)
		}
	}
	return c.JSON(appErr.Status, appErr)
}

// AppErrorResponse writes err's AppError, or a generic 500 if it carries none.
func AppErrorResponse(c echo.Context, err error) error {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError("Something went wrong")
	}
	return c.JSON(appErr.Status, appErr)
}
