package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/response"
	"github.com/stemsi/neetquiz-backend/internal/service"
)

// serviceCodes maps service error codes whose API code differs.
var serviceCodes = map[string]response.ErrCode{
	service.ErrNoImages.Code:            response.ErrFileRequired,
	service.ErrTooManyImages.Code:       response.ErrTooManyFiles,
	service.ErrUnsupportedFileType.Code: response.ErrUnsupportedFile,
}

func statusForKind(kind service.Kind, code string) int {
	switch kind {
	case service.KindValidation:
		if code == service.ErrFileTooLarge.Code {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	case service.KindConflict:
		return http.StatusConflict
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInvariant:
		return http.StatusUnprocessableEntity
	case service.KindExternal:
		if code == service.ErrExtractionFailed.Code {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// failService writes the envelope for an error returned by the service layer.
// Unclassified errors are logged and reported as internal.
func failService(c *gin.Context, log zerolog.Logger, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		log.Error().Err(err).
			Str("request_id", response.RequestID(c)).
			Str("path", c.FullPath()).
			Msg("Request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	code, ok := serviceCodes[se.Code]
	if !ok {
		code = response.ErrCode(se.Code)
	}
	status := statusForKind(se.Kind, se.Code)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", response.RequestID(c)).Msg("Upstream failure")
	}

	response.FailWithMessage(c, status, code, se.Message, detailFields(se.Details))
}

// detailFields lays diagnostics out as numbered fields.
func detailFields(details []string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	fields := make(map[string]string, len(details))
	for i, d := range details {
		fields[fmt.Sprintf("errors[%d]", i)] = d
	}
	return fields
}
