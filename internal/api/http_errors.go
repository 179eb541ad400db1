package api

import (
	"errors"
	"net/http"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
)

func httpStatusForDomainError(err error) (int, bool) {
	var domErr *core.DomainError
	if !errors.As(err, &domErr) || domErr == nil {
		return 0, false
	}

	switch domErr.Category {
	case core.ErrCatValidation:
		return http.StatusBadRequest, true
	case core.ErrCatNotFound:
		return http.StatusNotFound, true
	case core.ErrCatAuth:
		return http.StatusUnauthorized, true
	case core.ErrCatRateLimit:
		return http.StatusTooManyRequests, true
	case core.ErrCatTimeout:
		return http.StatusGatewayTimeout, true
	default:
		return http.StatusInternalServerError, true
	}
}

// respondDomainError maps err to a status. Validation and not-found errors
// expose their message; anything else is reported as prefix plus error.
func (h *Handler) respondDomainError(w http.ResponseWriter, r *http.Request, err error, prefix string) {
	status, ok := httpStatusForDomainError(err)
	if !ok {
		status = http.StatusInternalServerError
	}

	if status == http.StatusBadRequest || status == http.StatusNotFound {
		respondError(w, status, errorMessage(err))
		return
	}

	h.logger.Error(prefix, "error", err, "path", r.URL.Path)
	respondError(w, status, prefix+": "+err.Error())
}

// errorMessage returns the message of a DomainError without its category
// and code prefix.
func errorMessage(err error) string {
	var domErr *core.DomainError
	if errors.As(err, &domErr) && domErr != nil {
		return domErr.Message
	}
	return err.Error()
}
