package favorites

import apperrors "github.com/killallgit/songpeaks/pkg/errors"

// User facing errors. Compare with errors.Is.
var (
	ErrInvalidURL        = apperrors.New(apperrors.ErrCodeInvalidInput, "Invalid URL.")
	ErrAlreadyExists     = apperrors.New(apperrors.ErrCodeAlreadyExists, "Already added!")
	ErrNotFound          = apperrors.New(apperrors.ErrCodeNotFound, "Favorite not found.")
	ErrSectionNotFound   = apperrors.New(apperrors.ErrCodeNotFound, "Section not found.")
	ErrSuggestionIndex   = apperrors.New(apperrors.ErrCodeNotFound, "Suggestion not found.")
	ErrNameRequired      = apperrors.New(apperrors.ErrCodeMissingField, "Enter name.")
	ErrInvalidRange      = apperrors.New(apperrors.ErrCodeValidation, "Invalid times.")
	ErrDuplicateSection  = apperrors.New(apperrors.ErrCodeConflict, "A section with these times already exists.")
	ErrTitleUnresolvable = apperrors.New(apperrors.ErrCodeNotFound, "API could not determine video title.")
)
