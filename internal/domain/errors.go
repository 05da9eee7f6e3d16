package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrMissingHeader      = errors.New("catalog header is missing")
	ErrHeaderNotFirst     = errors.New("catalog header must precede all entries")
	ErrDuplicateHeader    = errors.New("catalog header is duplicated")
	ErrMissingKey         = errors.New("entry has no msgid")
	ErrMissingTranslation = errors.New("entry has no msgstr")
	ErrInvalidString      = errors.New("invalid quoted string")
	ErrUnexpectedLine     = errors.New("unexpected line")
	ErrInvalidPlural      = errors.New("invalid plural translation")
	ErrInvalidPluralForms = errors.New("invalid Plural-Forms header")
	ErrCatalogNotFound    = errors.New("catalog not found")
	ErrUnknownFormat      = errors.New("unknown export format")
	ErrNoRepository       = errors.New("no catalog repository configured")
	ErrInvalidLanguage    = errors.New("invalid catalog language")
)

// ParseError reports a structural problem in a catalog at a given line.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line <= 0 {
		return fmt.Sprintf("parse catalog: %v", e.Err)
	}
	return fmt.Sprintf("parse catalog: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EncodingError reports a byte stream that cannot be decoded with the
// charset the catalog declares. Offset is -1 when unknown.
type EncodingError struct {
	Charset string
	Offset  int
	Err     error
}

func (e *EncodingError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("decode catalog as %s: invalid byte at offset %d: %v", e.Charset, e.Offset, e.Err)
	}
	return fmt.Sprintf("decode catalog as %s: %v", e.Charset, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// DuplicateKeyError is returned in strict mode when a key appears twice.
type DuplicateKeyError struct {
	Key       string
	Context   string
	Line      int
	FirstLine int
}

func (e *DuplicateKeyError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("duplicate msgid %q (msgctxt %q) at line %d, first defined at line %d", e.Key, e.Context, e.Line, e.FirstLine)
	}
	return fmt.Sprintf("duplicate msgid %q at line %d, first defined at line %d", e.Key, e.Line, e.FirstLine)
}

// Code returns a stable identifier for err that adapters can map to
// user-facing text. It returns "" for errors the domain does not know.
func Code(err error) string {
	var (
		parseErr *ParseError
		encErr   *EncodingError
		dupErr   *DuplicateKeyError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &dupErr):
		return "duplicate_key"
	case errors.As(err, &encErr):
		return "encoding_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	case errors.Is(err, ErrCatalogNotFound):
		return "catalog_not_found"
	case errors.Is(err, ErrUnknownFormat):
		return "unknown_format"
	case errors.Is(err, ErrNoRepository):
		return "no_repository"
	case errors.Is(err, ErrInvalidLanguage):
		return "invalid_language"
	}
	return ""
}
