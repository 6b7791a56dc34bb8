package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/workintel/internal/workintel/service"
	sdk "github.com/aussiebroadwan/workintel/pkg/workintelsdk"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
)

// apiErrorFor maps a service error to the JSON error it is reported as.
// Unknown errors become a 500 and are the only ones logged at error level.
func apiErrorFor(err error) (*sdk.APIError, bool) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidRole):
		return sdk.ErrInvalidRequest.WithDescription(err.Error()), true
	case errors.Is(err, service.ErrWeakPassword):
		return sdk.NewAPIError(http.StatusBadRequest, sdk.ErrorCodeWeakPassword, err.Error()), true
	case errors.Is(err, service.ErrInvalidToken):
		return sdk.NewAPIError(http.StatusBadRequest, sdk.ErrorCodeInvalidToken, err.Error()), true
	case errors.Is(err, service.ErrInvalidWeek):
		return sdk.NewAPIError(http.StatusBadRequest, sdk.ErrorCodeInvalidWeek, err.Error()), true
	case errors.Is(err, service.ErrInvalidProvider):
		return sdk.NewAPIError(http.StatusBadRequest, sdk.ErrorCodeInvalidProvider, err.Error()), true
	case errors.Is(err, service.ErrProviderNotConfigured):
		return sdk.NewAPIError(http.StatusBadRequest, sdk.ErrorCodeNotConfigured, err.Error()), true

	case errors.Is(err, service.ErrUnauthorized):
		return sdk.ErrUnauthorized, true
	case errors.Is(err, service.ErrInvalidCredentials):
		return sdk.NewAPIError(http.StatusUnauthorized, sdk.ErrorCodeInvalidCredentials, err.Error()), true

	case errors.Is(err, service.ErrForbidden):
		return sdk.ErrForbidden, true
	case errors.Is(err, service.ErrInviteEmailMismatch):
		return sdk.NewAPIError(http.StatusForbidden, sdk.ErrorCodeInviteEmailMismatch, err.Error()), true

	case errors.Is(err, service.ErrTeamNotFound),
		errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrInviteNotFound),
		errors.Is(err, service.ErrIntegrationNotFound),
		errors.Is(err, service.ErrReportNotFound),
		errors.Is(err, service.ErrTaskNotFound):
		return sdk.ErrNotFound.WithDescription(err.Error()), true

	case errors.Is(err, service.ErrEmailTaken):
		return sdk.NewAPIError(http.StatusConflict, sdk.ErrorCodeEmailTaken, err.Error()), true
	case errors.Is(err, service.ErrLastAdmin):
		return sdk.NewAPIError(http.StatusConflict, sdk.ErrorCodeLastAdmin, err.Error()), true
	case errors.Is(err, service.ErrAlreadyMember):
		return sdk.NewAPIError(http.StatusConflict, sdk.ErrorCodeAlreadyMember, err.Error()), true
	case errors.Is(err, service.ErrInviteAlreadyUsed):
		return sdk.NewAPIError(http.StatusConflict, sdk.ErrorCodeInviteUsed, err.Error()), true
	case errors.Is(err, service.ErrGitHubNotConnected):
		return sdk.NewAPIError(http.StatusConflict, sdk.ErrorCodeGitHubNotConnected, err.Error()), true

	case errors.Is(err, service.ErrInviteExpired):
		return sdk.NewAPIError(http.StatusGone, sdk.ErrorCodeInviteExpired, err.Error()), true

	case errors.Is(err, service.ErrUpstream):
		return sdk.ErrUpstream, true
	}
	return sdk.ErrServerError, false
}

// writeServiceError writes err as JSON. action names the failed operation
// in the log line for unexpected errors.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	apiErr, known := apiErrorFor(err)
	if !known {
		slogx.FromContext(r.Context()).Error("request failed", slog.String("action", action), slog.Any("error", err))
	}
	apiErr.WriteError(w)
}

// writeBadJSON reports a body that could not be decoded.
func writeBadJSON(w http.ResponseWriter, err error) {
	desc := "Invalid JSON body"
	if err != nil && strings.Contains(err.Error(), "unknown field") {
		desc = strings.TrimPrefix(err.Error(), "decode json: json: ")
	}
	sdk.ErrInvalidRequest.WithDescription(desc).WriteError(w)
}

// redirectCode is the ?error= value page routes redirect with; fallback
// covers errors with no code of their own.
func redirectCode(err error, fallback string) string {
	switch {
	case errors.Is(err, service.ErrInviteNotFound):
		return "invite_invalid"
	case errors.Is(err, service.ErrInviteExpired):
		return "invite_expired"
	case errors.Is(err, service.ErrInviteAlreadyUsed):
		return "invite_used"
	case errors.Is(err, service.ErrInviteEmailMismatch):
		return "invite_email_mismatch"
	case errors.Is(err, service.ErrProviderNotConfigured):
		return "provider_not_configured"
	case errors.Is(err, service.ErrInvalidProvider):
		return "invalid_provider"
	case errors.Is(err, service.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, service.ErrAccessDenied):
		return "access_denied"
	case errors.Is(err, service.ErrNoJiraSite):
		return "no_jira_site"
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrTeamNotFound):
		return "forbidden"
	case errors.Is(err, service.ErrInvalidInput):
		return "invalid_request"
	case errors.Is(err, service.ErrEmailTaken):
		return "email_taken"
	case errors.Is(err, service.ErrWeakPassword):
		return "weak_password"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, service.ErrExchangeFailed):
		return "exchange_failed"
	}
	return fallback
}
