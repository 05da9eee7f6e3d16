package entities

import (
	"strconv"
	"strings"
)

// FlagFuzzy marks a translation as a carried-over guess needing review.
const FlagFuzzy = "fuzzy"

// contextSeparator joins msgctxt and msgid into a lookup key, as gettext does.
const contextSeparator = "\x04"

// NoLine marks a reference written as a bare path.
const NoLine = -1

// Reference is one source location an entry was extracted from.
type Reference struct {
	File string
	Line int // NoLine when the reference carries no line
}

// ParseReference splits "path:line". Anything not ending in ":<digits>" is
// a bare path.
func ParseReference(s string) Reference {
	if idx := strings.LastIndexByte(s, ':'); idx > 0 && idx < len(s)-1 {
		if n, err := strconv.Atoi(s[idx+1:]); err == nil && n >= 0 {
			return Reference{File: s[:idx], Line: n}
		}
	}
	return Reference{File: s, Line: NoLine}
}

func (r Reference) String() string {
	if r.Line < 0 {
		return r.File
	}
	return r.File + ":" + strconv.Itoa(r.Line)
}

// Entry is a single translatable message.
type Entry struct {
	Context   string
	Key       string
	KeyPlural string
	// HasContext is set when msgctxt was present, even if empty.
	HasContext bool

	Translation string
	// Plurals holds msgstr[N] by index; only set when KeyPlural is.
	Plurals []string

	References []Reference
	// Flags excludes fuzzy, which is tracked by Fuzzy.
	Flags []string
	Fuzzy bool

	PreviousContext string
	PreviousKey     string

	Comments          []string
	ExtractedComments []string

	Obsolete bool
	Line     int
}

// MessageID returns the lookup key for a msgid within an optional msgctxt.
// An empty context is treated as no context; use ContextMessageID to key
// an explicit empty msgctxt.
func MessageID(context, key string) string {
	if context == "" {
		return key
	}
	return context + contextSeparator + key
}

// ContextMessageID keys a msgid under a msgctxt that is present, even when
// it is empty.
func ContextMessageID(context, key string) string {
	return context + contextSeparator + key
}

// ID is the entry's lookup key.
func (e Entry) ID() string {
	if e.HasContext {
		return ContextMessageID(e.Context, e.Key)
	}
	return MessageID(e.Context, e.Key)
}

// IsHeader reports whether the entry is the catalog header: an empty msgid
// without msgctxt.
func (e Entry) IsHeader() bool { return e.Key == "" && !e.HasContext && e.Context == "" }

// IsPlural reports whether the entry carries msgid_plural.
func (e Entry) IsPlural() bool { return e.KeyPlural != "" }

// IsTranslated reports whether every form of the entry has text, regardless
// of the fuzzy flag.
func (e Entry) IsTranslated() bool {
	if !e.IsPlural() {
		return e.Translation != ""
	}
	if len(e.Plurals) == 0 {
		return false
	}
	for _, p := range e.Plurals {
		if p == "" {
			return false
		}
	}
	return true
}

// IsVerified reports whether the entry is translated and not fuzzy.
func (e Entry) IsVerified() bool { return e.IsTranslated() && !e.Fuzzy }

func (e Entry) HasFlag(flag string) bool {
	if flag == FlagFuzzy {
		return e.Fuzzy
	}
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// AllFlags returns the flags as written in a "#," line, fuzzy first.
func (e Entry) AllFlags() []string {
	if !e.Fuzzy {
		return e.Flags
	}
	return append([]string{FlagFuzzy}, e.Flags...)
}
