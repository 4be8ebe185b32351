package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/boardside/kilterboard-backend/internal/domain/climbs"
	"github.com/boardside/kilterboard-backend/internal/domain/holds"
	"github.com/boardside/kilterboard-backend/internal/http/response"
	apperrors "github.com/boardside/kilterboard-backend/internal/pkg/errors"
)

// respondServiceError maps service and domain errors onto HTTP statuses.
// Domain errors keep their machine-readable codes in the envelope.
func respondServiceError(c *gin.Context, err error) {
	var (
		validationErr *holds.ValidationError
		decodeErr     *holds.DecodeError
		voteErr       *climbs.VoteError
		stateErr      *climbs.StateError
		tagErr        *climbs.TagError
	)

	switch {
	case errors.As(err, &validationErr):
		response.RespondError(c, http.StatusUnprocessableEntity, validationErr.Code, err)
	case errors.As(err, &decodeErr):
		response.RespondError(c, http.StatusBadRequest, "invalid_holds_payload", err)
	case errors.As(err, &voteErr):
		response.RespondError(c, http.StatusUnprocessableEntity, voteErr.Code, err)
	case errors.As(err, &stateErr):
		response.RespondError(c, http.StatusConflict, "illegal_state_transition", err)
	case errors.As(err, &tagErr):
		response.RespondError(c, http.StatusUnprocessableEntity, climbs.TagCodeInvalidFormat, err)
	case errors.Is(err, apperrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, apperrors.ErrForbidden):
		response.RespondError(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, apperrors.ErrInvalidArgument):
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
