package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/tkoide/shutsugan/core"
	"github.com/tkoide/shutsugan/core/catalog"
	"github.com/tkoide/shutsugan/core/roster"
	"github.com/tkoide/shutsugan/core/user"
)

var errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			code, message = mapDomainError(origErr)
			if code == http.StatusInternalServerError {
				logger.Error(http.StatusText(code), errors.Wrap(err, "handling request"))
			}
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// mapDomainError translates the domain error taxonomy to HTTP.
// Anything unrecognized is a server error.
func mapDomainError(err error) (int, interface{}) {
	switch err {
	case core.ErrStoreUnavailable:
		return http.StatusServiceUnavailable, "reference store unavailable, try again later"
	case user.ErrNotFound:
		return http.StatusNotFound, "user not found"
	case catalog.ErrUniversityNotFound:
		return http.StatusNotFound, "university not found"
	case roster.ErrTaskNotFound:
		return http.StatusNotFound, "task not found"
	case roster.ErrEmptyTemplateCatalog:
		return http.StatusConflict, "task template catalog is empty"
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
