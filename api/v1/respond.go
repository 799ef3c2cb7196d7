package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/taskboard-api/apperrors"
	"github.com/taskboard-api/dto"
	"github.com/taskboard-api/logger"
	"github.com/taskboard-api/middleware"
	"github.com/taskboard-api/models"
	"github.com/taskboard-api/policy"
	"github.com/taskboard-api/utils"
	"go.uber.org/zap"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(models.JSONTagName)
	}
}

func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.CodeInvalid:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.CodeForbidden:
		return http.StatusForbidden
	case apperrors.CodeConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"detail": ...} or as a field error map
func respondError(c *gin.Context, err error) {
	writeError(c, err, "detail")
}

// respondActionError writes the dependency action failures under the "error"
// key. Lookup and permission failures keep the "detail" shape
func respondActionError(c *gin.Context, err error) {
	if ae, ok := apperrors.As(err); ok {
		generic := ae.Code == apperrors.CodeForbidden ||
			ae.Code == apperrors.CodeUnauthorized ||
			(ae.Code == apperrors.CodeNotFound && ae.Message == apperrors.NotFound().Message)
		if !generic {
			writeError(c, err, "error")
			return
		}
	}
	writeError(c, err, "detail")
}

func writeError(c *gin.Context, err error, key string) {
	ae, ok := apperrors.As(err)
	if !ok {
		ae = apperrors.Wrap(err, apperrors.CodeInternal, "unexpected error")
	}

	status := statusFor(ae.Code)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		logger.L().Error("request failed",
			zap.String("id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(status, gin.H{key: "A server error occurred."})
		return
	}

	if len(ae.Fields) > 0 {
		c.JSON(status, ae.Fields)
		return
	}
	c.JSON(status, gin.H{key: ae.Message})
}

// bindJSON decodes the body into obj. Failures are answered with 400 and
// reported as false
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondError(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(models.FieldErrors(verrs))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.Validation(map[string][]string{
			typeErr.Field: {dto.DecodeMessage(typeErr)},
		})
	}

	if errors.Is(err, io.EOF) {
		return apperrors.New(apperrors.CodeInvalid, "No data provided")
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return apperrors.Wrap(err, apperrors.CodeInvalid, "JSON parse error - "+syntaxErr.Error())
	}
	return apperrors.Wrap(err, apperrors.CodeInvalid, err.Error())
}

// pathID reads the :id parameter. Anything but a positive integer is a 404
func pathID(c *gin.Context) (uint, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		respondError(c, apperrors.NotFound())
		return 0, false
	}
	return id, true
}

func currentCaller(c *gin.Context) *policy.Caller {
	return middleware.CallerFrom(c)
}
