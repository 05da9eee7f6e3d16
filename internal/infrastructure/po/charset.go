package po

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"

	"pocatalog/internal/domain"
)

var (
	utf8BOM   = []byte{0xEF, 0xBB, 0xBF}
	charsetRe = regexp.MustCompile(`(?i)charset=([A-Za-z0-9_.:-]+)`)

	errInvalidUTF8 = errors.New("invalid UTF-8")
)

// declaredCharset looks for the charset in the first block of raw, which
// must be the header. Header fields are ASCII in every charset gettext
// supports, so the raw bytes can be searched before decoding.
func declaredCharset(raw []byte) string {
	first := raw
	for _, sep := range [][]byte{[]byte("\n\n"), []byte("\r\n\r\n")} {
		if idx := bytes.Index(first, sep); idx >= 0 {
			first = first[:idx]
		}
	}
	m := charsetRe.FindSubmatch(first)
	if m == nil {
		return ""
	}
	return string(m[1])
}

func isUTF8Name(charset string) bool {
	switch strings.ToLower(charset) {
	case "", "charset", "utf-8", "utf8":
		return true
	}
	return false
}

// toUTF8 strips a BOM and converts raw to UTF-8 according to the declared
// charset. transcoded reports whether bytes were converted from another
// charset.
func toUTF8(raw []byte) (text []byte, transcoded bool, err error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	charset := declaredCharset(raw)

	if isUTF8Name(charset) {
		if off := invalidUTF8Offset(raw); off >= 0 {
			return nil, false, &domain.EncodingError{Charset: "UTF-8", Offset: off, Err: errInvalidUTF8}
		}
		return raw, false, nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, false, &domain.EncodingError{Charset: charset, Offset: -1, Err: err}
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		if off := invalidUTF8Offset(raw); off >= 0 {
			return nil, false, &domain.EncodingError{Charset: charset, Offset: off, Err: errInvalidUTF8}
		}
		return raw, false, nil
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, false, &domain.EncodingError{Charset: charset, Offset: -1, Err: err}
	}
	return out, true, nil
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
