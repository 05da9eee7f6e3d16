package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"pocatalog/internal/domain/entities"
)

// catalogRow mirrors the catalogs table.
type catalogRow struct {
	ID             string
	Language       string
	Project        string
	Header         string
	HeaderComments []string
	HeaderFlags    []string
	CreatedAt      pgtype.Timestamptz
}

// entryRow mirrors the catalog_entries table.
type entryRow struct {
	Position        int32
	Msgctxt         pgtype.Text
	Msgid           string
	MsgidPlural     string
	Msgstr          string
	Plurals         []string
	Refs            []string
	Flags           []string
	Fuzzy           bool
	Comments        []string
	Extracted       []string
	PreviousMsgctxt string
	PreviousMsgid   string
	Obsolete        bool
}

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func headerToDomain(r catalogRow) entities.Header {
	h := entities.ParseHeader(r.Header)
	h.Comments = r.HeaderComments
	h.Flags = r.HeaderFlags
	return h
}

func entryToRow(position int, e entities.Entry) entryRow {
	var refs []string
	for _, r := range e.References {
		refs = append(refs, r.String())
	}
	return entryRow{
		Position:        int32(position),
		Msgctxt:         pgtype.Text{String: e.Context, Valid: e.HasContext || e.Context != ""},
		Msgid:           e.Key,
		MsgidPlural:     e.KeyPlural,
		Msgstr:          e.Translation,
		Plurals:         e.Plurals,
		Refs:            refs,
		Flags:           e.Flags,
		Fuzzy:           e.Fuzzy,
		Comments:        e.Comments,
		Extracted:       e.ExtractedComments,
		PreviousMsgctxt: e.PreviousContext,
		PreviousMsgid:   e.PreviousKey,
		Obsolete:        e.Obsolete,
	}
}

func entryToDomain(r entryRow) entities.Entry {
	var refs []entities.Reference
	for _, s := range r.Refs {
		refs = append(refs, entities.ParseReference(s))
	}
	return entities.Entry{
		Context:           r.Msgctxt.String,
		HasContext:        r.Msgctxt.Valid,
		Key:               r.Msgid,
		KeyPlural:         r.MsgidPlural,
		Translation:       r.Msgstr,
		Plurals:           r.Plurals,
		References:        refs,
		Flags:             r.Flags,
		Fuzzy:             r.Fuzzy,
		Comments:          r.Comments,
		ExtractedComments: r.Extracted,
		PreviousContext:   r.PreviousMsgctxt,
		PreviousKey:       r.PreviousMsgid,
		Obsolete:          r.Obsolete,
	}
}

func snapshotToDomain(r catalogRow, entries int) entities.Snapshot {
	return entities.Snapshot{
		ID:        r.ID,
		Language:  r.Language,
		Project:   r.Project,
		Entries:   entries,
		CreatedAt: pgtypeTimestamptzToTime(r.CreatedAt),
	}
}
