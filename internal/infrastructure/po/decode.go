// Package po reads and writes GNU gettext PO catalogs.
package po

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"pocatalog/internal/domain"
	"pocatalog/internal/domain/entities"
)

// Option configures Decode.
type Option func(*parser)

// Strict makes Decode fail with *domain.DuplicateKeyError when a live key
// is declared twice. By default the first declaration wins.
func Strict() Option {
	return func(p *parser) { p.strict = true }
}

// Decode parses a complete catalog. Any structural or encoding problem
// aborts the whole load; no partial catalog is ever returned.
func Decode(data []byte, opts ...Option) (*entities.Catalog, error) {
	text, transcoded, err := toUTF8(data)
	if err != nil {
		return nil, err
	}

	p := &parser{}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.run(text); err != nil {
		return nil, err
	}
	if p.header == nil {
		return nil, &domain.ParseError{Line: 1, Err: domain.ErrMissingHeader}
	}
	if transcoded {
		p.header.SetCharset("UTF-8")
	}
	return entities.NewCatalog(*p.header, p.entries, p.strict)
}

type fieldKind int

const (
	fieldNone fieldKind = iota
	fieldContext
	fieldKey
	fieldKeyPlural
	fieldTranslation
	fieldPlural
	fieldPrevContext
	fieldPrevKey
	fieldPrevKeyPlural
)

// block accumulates the lines of one entry until a separator.
type block struct {
	start    int
	entry    entities.Entry
	flags    []string
	hasKey   bool
	hasStr   bool
	last     fieldKind
	obsolete bool
}

type parser struct {
	strict  bool
	header  *entities.Header
	entries []entities.Entry

	cur  *block
	line int
}

func (p *parser) fail(err error) error {
	return &domain.ParseError{Line: p.line, Err: err}
}

func (p *parser) run(text []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		p.line++
		if err := p.consume(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	return p.flush()
}

func (p *parser) consume(raw string) error {
	line := strings.TrimSpace(raw)
	if line == "" {
		return p.flush()
	}

	obsolete := false
	if strings.HasPrefix(line, "#~") {
		obsolete = true
		line = strings.TrimSpace(line[2:])
		if line == "" {
			return nil
		}
		if strings.HasPrefix(line, "|") {
			line = "#" + line
		}
	}

	if strings.HasPrefix(line, "#") {
		return p.comment(line)
	}
	return p.keyword(line, obsolete)
}

// begin returns the current block, starting a new one when the previous
// entry is already complete (entries are not always blank-line separated).
func (p *parser) begin(startsEntry bool) (*block, error) {
	if p.cur != nil && p.cur.hasStr && startsEntry {
		if err := p.flush(); err != nil {
			return nil, err
		}
	}
	if p.cur == nil {
		p.cur = &block{start: p.line}
	}
	return p.cur, nil
}

func (p *parser) comment(line string) error {
	b, err := p.begin(true)
	if err != nil {
		return err
	}
	if strings.HasPrefix(line, "#|") {
		return p.previous(b, strings.TrimSpace(line[2:]))
	}
	b.last = fieldNone
	e := &b.entry

	switch {
	case strings.HasPrefix(line, "#:"):
		for _, ref := range strings.Fields(line[2:]) {
			e.References = append(e.References, entities.ParseReference(ref))
		}
	case strings.HasPrefix(line, "#,"):
		for _, flag := range strings.Split(line[2:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				b.flags = append(b.flags, flag)
			}
		}
	case strings.HasPrefix(line, "#."):
		e.ExtractedComments = append(e.ExtractedComments, strings.TrimPrefix(line[2:], " "))
	default:
		e.Comments = append(e.Comments, strings.TrimPrefix(line[1:], " "))
	}
	return nil
}

// previous handles "#| msgctxt", "#| msgid" and their continuation lines.
func (p *parser) previous(b *block, rest string) error {
	e := &b.entry
	var (
		kind  fieldKind
		value string
		err   error
	)
	if v, ok := cutKeyword(rest, "msgctxt"); ok {
		kind = fieldPrevContext
		value, err = unquote(v)
	} else if v, ok := cutKeyword(rest, "msgid_plural"); ok {
		kind = fieldPrevKeyPlural
		_, err = unquote(v)
	} else if v, ok := cutKeyword(rest, "msgid"); ok {
		kind = fieldPrevKey
		value, err = unquote(v)
	} else if strings.HasPrefix(rest, `"`) {
		value, err = unquote(rest)
		if err != nil {
			return p.fail(err)
		}
		switch b.last {
		case fieldPrevContext:
			e.PreviousContext += value
		case fieldPrevKey:
			e.PreviousKey += value
		case fieldPrevKeyPlural:
		default:
			return p.fail(fmt.Errorf("%w: #| continuation without field", domain.ErrUnexpectedLine))
		}
		return nil
	} else {
		return p.fail(fmt.Errorf("%w: #| %s", domain.ErrUnexpectedLine, rest))
	}
	if err != nil {
		return p.fail(err)
	}
	switch kind {
	case fieldPrevContext:
		e.PreviousContext = value
	case fieldPrevKey:
		e.PreviousKey = value
	}
	b.last = kind
	return nil
}

// cutKeyword reports whether line starts with kw followed by whitespace and
// returns the rest of the line.
func cutKeyword(line, kw string) (string, bool) {
	rest, ok := strings.CutPrefix(line, kw)
	if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	return strings.TrimLeft(rest, " \t"), true
}

func (p *parser) keyword(line string, obsolete bool) error {
	if rest, ok := cutKeyword(line, "msgctxt"); ok {
		b, err := p.begin(true)
		if err != nil {
			return err
		}
		if b.hasKey {
			return p.fail(fmt.Errorf("%w: msgctxt after msgid", domain.ErrUnexpectedLine))
		}
		b.entry.HasContext = true
		return p.setField(b, fieldContext, rest, obsolete)
	}

	if rest, ok := cutKeyword(line, "msgid_plural"); ok {
		b := p.cur
		if b == nil || !b.hasKey || b.hasStr {
			return p.fail(fmt.Errorf("%w: msgid_plural without msgid", domain.ErrUnexpectedLine))
		}
		return p.setField(b, fieldKeyPlural, rest, obsolete)
	}

	if rest, ok := cutKeyword(line, "msgid"); ok {
		b, err := p.begin(true)
		if err != nil {
			return err
		}
		if b.hasKey {
			return p.fail(fmt.Errorf("%w: msgid declared twice", domain.ErrUnexpectedLine))
		}
		b.hasKey = true
		return p.setField(b, fieldKey, rest, obsolete)
	}

	if strings.HasPrefix(line, "msgstr[") {
		b := p.cur
		if b == nil || !b.hasKey {
			return p.fail(domain.ErrMissingKey)
		}
		closing := strings.IndexByte(line, ']')
		if closing < 0 {
			return p.fail(fmt.Errorf("%w: %s", domain.ErrInvalidPlural, line))
		}
		idx, err := strconv.Atoi(line[len("msgstr["):closing])
		if err != nil || idx != len(b.entry.Plurals) {
			return p.fail(fmt.Errorf("%w: %s", domain.ErrInvalidPlural, line))
		}
		if b.entry.KeyPlural == "" {
			return p.fail(fmt.Errorf("%w: msgstr[%d] without msgid_plural", domain.ErrInvalidPlural, idx))
		}
		value, err := unquote(line[closing+1:])
		if err != nil {
			return p.fail(err)
		}
		b.entry.Plurals = append(b.entry.Plurals, value)
		b.hasStr = true
		b.last = fieldPlural
		b.obsolete = b.obsolete || obsolete
		return nil
	}

	if rest, ok := cutKeyword(line, "msgstr"); ok {
		b := p.cur
		if b == nil || !b.hasKey {
			return p.fail(domain.ErrMissingKey)
		}
		if b.hasStr {
			return p.fail(fmt.Errorf("%w: msgstr declared twice", domain.ErrUnexpectedLine))
		}
		if b.entry.KeyPlural != "" {
			return p.fail(fmt.Errorf("%w: plain msgstr with msgid_plural", domain.ErrInvalidPlural))
		}
		b.hasStr = true
		return p.setField(b, fieldTranslation, rest, obsolete)
	}

	if strings.HasPrefix(line, `"`) {
		if p.cur == nil || p.cur.last == fieldNone {
			return p.fail(fmt.Errorf("%w: string without keyword", domain.ErrUnexpectedLine))
		}
		return p.appendField(p.cur, line)
	}
	return p.fail(fmt.Errorf("%w: %s", domain.ErrUnexpectedLine, line))
}

func (p *parser) setField(b *block, kind fieldKind, quoted string, obsolete bool) error {
	value, err := unquote(quoted)
	if err != nil {
		return p.fail(err)
	}
	e := &b.entry
	switch kind {
	case fieldContext:
		e.Context = value
	case fieldKey:
		e.Key = value
	case fieldKeyPlural:
		e.KeyPlural = value
	case fieldTranslation:
		e.Translation = value
	}
	b.last = kind
	b.obsolete = b.obsolete || obsolete
	return nil
}

func (p *parser) appendField(b *block, quoted string) error {
	value, err := unquote(quoted)
	if err != nil {
		return p.fail(err)
	}
	e := &b.entry
	switch b.last {
	case fieldContext:
		e.Context += value
	case fieldKey:
		e.Key += value
	case fieldKeyPlural:
		e.KeyPlural += value
	case fieldTranslation:
		e.Translation += value
	case fieldPlural:
		e.Plurals[len(e.Plurals)-1] += value
	default:
		return p.fail(fmt.Errorf("%w: string without keyword", domain.ErrUnexpectedLine))
	}
	return nil
}

func (p *parser) flush() error {
	b := p.cur
	if b == nil {
		return nil
	}
	p.cur = nil

	if !b.hasKey {
		return &domain.ParseError{Line: b.start, Err: domain.ErrMissingKey}
	}
	if !b.hasStr {
		return &domain.ParseError{Line: b.start, Err: domain.ErrMissingTranslation}
	}

	e := b.entry
	e.Line = b.start
	e.Obsolete = b.obsolete

	if e.IsHeader() && !e.Obsolete {
		switch {
		case p.header != nil:
			return &domain.ParseError{Line: b.start, Err: domain.ErrDuplicateHeader}
		case len(p.entries) > 0:
			return &domain.ParseError{Line: b.start, Err: domain.ErrHeaderNotFirst}
		}
		h := entities.ParseHeader(e.Translation)
		h.Comments = e.Comments
		h.Flags = b.flags
		h.Line = b.start
		p.header = &h
		return nil
	}
	if p.header == nil && !e.Obsolete {
		return &domain.ParseError{Line: b.start, Err: domain.ErrMissingHeader}
	}

	for _, flag := range b.flags {
		if flag == entities.FlagFuzzy {
			e.Fuzzy = true
			continue
		}
		e.Flags = append(e.Flags, flag)
	}
	p.entries = append(p.entries, e)
	return nil
}
