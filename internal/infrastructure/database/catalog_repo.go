package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pocatalog/internal/domain"
	"pocatalog/internal/domain/entities"
	"pocatalog/internal/ports/output"
)

var _ output.CatalogRepository = (*CatalogRepository)(nil)

// DBTX is the subset of *pgxpool.Pool the repository uses.
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	insertCatalog = `INSERT INTO catalogs (id, language, project, header, header_comments, header_flags)
VALUES ($1, $2, $3, $4, $5, $6)`

	insertEntry = `INSERT INTO catalog_entries (catalog_id, position, msgctxt, msgid, msgid_plural, msgstr, plurals, refs, flags,
	fuzzy, comments, extracted, previous_msgctxt, previous_msgid, obsolete)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	selectLatestCatalog = `SELECT id::text, language, project, header, header_comments, header_flags, created_at
FROM catalogs WHERE language = $1 ORDER BY seq DESC LIMIT 1`

	selectEntries = `SELECT position, msgctxt, msgid, msgid_plural, msgstr, plurals, refs, flags, fuzzy, comments, extracted,
	previous_msgctxt, previous_msgid, obsolete
FROM catalog_entries WHERE catalog_id = $1 ORDER BY position`

	selectSnapshots = `SELECT c.id::text, c.language, c.project, c.created_at, COUNT(e.position)
FROM catalogs c LEFT JOIN catalog_entries e ON e.catalog_id = c.id
WHERE c.language = $1 GROUP BY c.id ORDER BY c.seq DESC`
)

// CatalogRepository implements output.CatalogRepository with pgx.
type CatalogRepository struct {
	db DBTX
}

// NewCatalogRepository creates a CatalogRepository.
func NewCatalogRepository(db DBTX) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) Save(ctx context.Context, c *entities.Catalog) (string, error) {
	id := uuid.New()
	h := c.Header()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin save catalog: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertCatalog, id, c.Language(), h.ProjectIDVersion(), h.String(), h.Comments, h.Flags); err != nil {
		return "", fmt.Errorf("insert catalog: %w", err)
	}

	batch := &pgx.Batch{}
	position := 0
	for e := range c.Entries() {
		row := entryToRow(position, e)
		batch.Queue(insertEntry, id, row.Position, row.Msgctxt, row.Msgid, row.MsgidPlural, row.Msgstr,
			row.Plurals, row.Refs, row.Flags, row.Fuzzy, row.Comments, row.Extracted,
			row.PreviousMsgctxt, row.PreviousMsgid, row.Obsolete)
		position++
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return "", fmt.Errorf("insert catalog entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit catalog: %w", err)
	}
	return id.String(), nil
}

func (r *CatalogRepository) FindLatestByLanguage(ctx context.Context, lang string) (*entities.Catalog, error) {
	var row catalogRow
	err := r.db.QueryRow(ctx, selectLatestCatalog, lang).Scan(
		&row.ID, &row.Language, &row.Project,
		&row.Header, &row.HeaderComments, &row.HeaderFlags,
		&row.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCatalogNotFound, lang)
	}
	if err != nil {
		return nil, fmt.Errorf("get latest catalog: %w", err)
	}

	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("parse catalog id %q: %w", row.ID, err)
	}
	rows, err := r.db.Query(ctx, selectEntries, id)
	if err != nil {
		return nil, fmt.Errorf("get catalog entries: %w", err)
	}
	entryRows, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entryRow, error) {
		var e entryRow
		err := row.Scan(&e.Position, &e.Msgctxt, &e.Msgid, &e.MsgidPlural, &e.Msgstr,
			&e.Plurals, &e.Refs, &e.Flags, &e.Fuzzy, &e.Comments, &e.Extracted,
			&e.PreviousMsgctxt, &e.PreviousMsgid, &e.Obsolete)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan catalog entries: %w", err)
	}

	entries := make([]entities.Entry, len(entryRows))
	for i := range entryRows {
		entries[i] = entryToDomain(entryRows[i])
	}
	return entities.NewCatalog(headerToDomain(row), entries, false)
}

func (r *CatalogRepository) ListByLanguage(ctx context.Context, lang string) ([]entities.Snapshot, error) {
	rows, err := r.db.Query(ctx, selectSnapshots, lang)
	if err != nil {
		return nil, fmt.Errorf("list catalog snapshots: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Snapshot, error) {
		var (
			c     catalogRow
			count int64
		)
		if err := row.Scan(&c.ID, &c.Language, &c.Project, &c.CreatedAt, &count); err != nil {
			return entities.Snapshot{}, err
		}
		return snapshotToDomain(c, int(count)), nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan catalog snapshots: %w", err)
	}
	return out, nil
}
