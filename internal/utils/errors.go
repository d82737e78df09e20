package utils

import (
	"errors"
	"net/http"
)

/*
   Sentinel errors for service-layer domain logic.
   Controllers do: if errors.Is(err, ErrXYZ) { ... }
*/
var (
	ErrNotOwner          = errors.New("not_owner")
	ErrPropertyNotFound  = errors.New("property_not_found")
	ErrAssetNotFound     = errors.New("asset_not_found")
	ErrTokenNotFound     = errors.New("token_not_found")
	ErrIdentifierRevoked = errors.New("identifier_revoked")
	ErrInvalidAssetType  = errors.New("invalid_asset_type")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	// Two regenerates raced and the loser hit the one-active-per-property
	// unique index. Callers retry or surface a conflict.
	ErrIdentifierConflict = errors.New("identifier_conflict")
)

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
