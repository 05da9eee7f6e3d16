package discord

import (
	"pocatalog/internal/domain"
	"pocatalog/internal/ports/output"
)

// errorKeys maps domain error codes to UI message keys.
var errorKeys = map[string]string{
	"catalog_not_found": "error_catalog_not_found",
	"invalid_language":  "error_invalid_language",
}

// TranslateDomainError maps a domain error code to a user-facing message in
// locale.
func TranslateDomainError(t output.T, locale, code string) string {
	key, ok := errorKeys[code]
	if !ok {
		key = "error_generic"
	}
	return t.T(locale, key, nil)
}

// DomainErrorMessage is a convenience helper that extracts the domain error code
// and immediately resolves it to a user-facing message.
func DomainErrorMessage(t output.T, locale string, err error) string {
	if err == nil {
		return ""
	}
	return TranslateDomainError(t, locale, domain.Code(err))
}
