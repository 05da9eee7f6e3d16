package po

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"pocatalog/internal/domain/entities"
)

// referenceWidth is where "#:" lines wrap, matching msgcat's default.
const referenceWidth = 79

// Encode serializes c. The header is written as loaded except for
// PO-Revision-Date, which is set to now unless now is zero.
func Encode(c *entities.Catalog, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, c, now); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write is Encode to an io.Writer.
func Write(w io.Writer, c *entities.Catalog, now time.Time) error {
	bw := bufio.NewWriter(w)

	h := c.Header()
	if !now.IsZero() {
		h.SetRevisionDate(now)
	}
	writeHeader(bw, h)

	for e := range c.Entries() {
		bw.WriteByte('\n')
		writeEntry(bw, e)
	}
	return bw.Flush()
}

func writeHeader(w *bufio.Writer, h entities.Header) {
	writeComments(w, h.Comments)
	if len(h.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(h.Flags, ", "))
	}
	writeField(w, "msgid", "")
	w.WriteString("msgstr \"\"\n")
	for _, part := range strings.SplitAfter(h.String(), "\n") {
		if part != "" {
			fmt.Fprintf(w, "%s\n", quote(part))
		}
	}
}

func writeComments(w *bufio.Writer, comments []string) {
	for _, c := range comments {
		if c == "" {
			w.WriteString("#\n")
			continue
		}
		fmt.Fprintf(w, "# %s\n", c)
	}
}

func writeEntry(w *bufio.Writer, e entities.Entry) {
	writeComments(w, e.Comments)
	for _, c := range e.ExtractedComments {
		fmt.Fprintf(w, "#. %s\n", c)
	}
	writeReferences(w, e.References)
	if flags := e.AllFlags(); len(flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(flags, ", "))
	}

	prefix, prevPrefix := "", "#| "
	if e.Obsolete {
		prefix, prevPrefix = "#~ ", "#~| "
	}
	if e.PreviousContext != "" {
		writeField(w, prevPrefix+"msgctxt", e.PreviousContext)
	}
	if e.PreviousKey != "" {
		writeField(w, prevPrefix+"msgid", e.PreviousKey)
	}

	if e.HasContext || e.Context != "" {
		writeField(w, prefix+"msgctxt", e.Context)
	}
	writeField(w, prefix+"msgid", e.Key)
	if !e.IsPlural() {
		writeField(w, prefix+"msgstr", e.Translation)
		return
	}
	writeField(w, prefix+"msgid_plural", e.KeyPlural)
	plurals := e.Plurals
	if len(plurals) == 0 {
		plurals = []string{""}
	}
	for i, v := range plurals {
		writeField(w, fmt.Sprintf("%smsgstr[%d]", prefix, i), v)
	}
}

func writeReferences(w *bufio.Writer, refs []entities.Reference) {
	if len(refs) == 0 {
		return
	}
	line := "#:"
	for _, ref := range refs {
		s := ref.String()
		if len(line) > 2 && len(line)+1+len(s) > referenceWidth {
			w.WriteString(line)
			w.WriteByte('\n')
			line = "#:"
		}
		line += " " + s
	}
	w.WriteString(line)
	w.WriteByte('\n')
}

// writeField writes keyword and value. Values with embedded newlines are
// split after each newline, with an empty first string, as msgcat does.
func writeField(w *bufio.Writer, keyword, value string) {
	// The continuation lines of an obsolete or previous field keep the comment marker.
	contPrefix := ""
	if i := strings.LastIndex(keyword, " "); i >= 0 {
		contPrefix = keyword[:i+1]
	}

	if !strings.Contains(strings.TrimSuffix(value, "\n"), "\n") {
		fmt.Fprintf(w, "%s %s\n", keyword, quote(value))
		return
	}
	fmt.Fprintf(w, "%s \"\"\n", keyword)
	for _, part := range strings.SplitAfter(value, "\n") {
		if part == "" {
			continue
		}
		fmt.Fprintf(w, "%s%s\n", contPrefix, quote(part))
	}
}
