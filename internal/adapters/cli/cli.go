// Package cli is the pocat command line: checks, formats, exports and
// snapshots PO catalogs.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"pocatalog/internal/application"
	"pocatalog/internal/domain"
	"pocatalog/internal/domain/entities"
	"pocatalog/internal/infrastructure/export"
	"pocatalog/internal/infrastructure/i18n"
	"pocatalog/internal/infrastructure/po"
	"pocatalog/internal/ports/output"
)

// RepoFactory opens the snapshot repository. The returned func releases it.
type RepoFactory func(ctx context.Context) (output.CatalogRepository, func(), error)

type CLI struct {
	app     *kingpin.Application
	out     io.Writer
	newRepo RepoFactory

	verbose bool
	strict  bool
	write   bool
	file    string
	key     string
	msgctxt string
	format  string
	lang    string
	output  string
	args    []string

	// hasContext is set when --context was given, even as "".
	hasContext bool
}

// New builds the pocat application. newRepo may be nil, then the commands
// that need a database fail with domain.ErrNoRepository.
func New(version string, out io.Writer, newRepo RepoFactory) *CLI {
	c := &CLI{
		app:     kingpin.New("pocat", "Inspect, normalise and store gettext PO catalogs."),
		out:     out,
		newRepo: newRepo,
	}
	c.app.Version(version)
	c.app.HelpFlag.Short('h')
	c.app.Flag("verbose", "Enable debug logging").Short('v').BoolVar(&c.verbose)
	c.app.Flag("strict", "Reject duplicate message keys").BoolVar(&c.strict)
	c.app.PreAction(func(*kingpin.ParseContext) error {
		if c.verbose {
			log.SetLevel(log.DebugLevel)
		}
		return nil
	})

	check := c.app.Command("check", "Parse a catalog and report its statistics").Action(c.runCheck)
	check.Arg("file", "PO file").Required().ExistingFileVar(&c.file)

	stats := c.app.Command("stats", "Show translation statistics").Action(c.runStats)
	stats.Arg("file", "PO file").Required().ExistingFileVar(&c.file)

	lookup := c.app.Command("lookup", "Translate one message, formatting ARGS into it").Action(c.runLookup)
	lookup.Flag("context", "Message context (msgctxt)").PreAction(func(*kingpin.ParseContext) error {
		c.hasContext = true
		return nil
	}).StringVar(&c.msgctxt)
	lookup.Arg("file", "PO file").Required().ExistingFileVar(&c.file)
	lookup.Arg("key", "Source text (msgid)").Required().StringVar(&c.key)
	lookup.Arg("args", "Format arguments").StringsVar(&c.args)

	format := c.app.Command("fmt", "Rewrite a catalog in canonical layout").Action(c.runFmt)
	format.Flag("write", "Write the result back to the file").Short('w').BoolVar(&c.write)
	format.Arg("file", "PO file").Required().ExistingFileVar(&c.file)

	exp := c.app.Command("export", "Convert a catalog to another format").Action(c.runExport)
	exp.Flag("format", "Output format").Default("json").EnumVar(&c.format, export.Default().Formats()...)
	exp.Arg("file", "PO file").Required().ExistingFileVar(&c.file)

	imp := c.app.Command("import", "Store a catalog as a new snapshot").Action(c.runImport)
	imp.Arg("file", "PO file").Required().ExistingFileVar(&c.file)

	restore := c.app.Command("restore", "Print the latest snapshot of a language").Action(c.runRestore)
	restore.Flag("output", "Write to this file instead of stdout").Short('o').StringVar(&c.output)
	restore.Arg("lang", "Language, e.g. hy").Required().StringVar(&c.lang)

	snapshots := c.app.Command("snapshots", "List the stored snapshots of a language").Action(c.runSnapshots)
	snapshots.Arg("lang", "Language, e.g. hy").Required().StringVar(&c.lang)

	return c
}

// Run parses args and executes the selected command.
func (c *CLI) Run(args []string) error {
	_, err := c.app.Parse(args)
	return err
}

// FatalIfError reports err the kingpin way and exits.
func (c *CLI) FatalIfError(err error) {
	c.app.FatalIfError(err, "")
}

func (c *CLI) service(repo output.CatalogRepository, sinks ...output.CatalogSink) *application.CatalogService {
	return application.NewCatalogService(po.Codec{Strict: c.strict}, export.Default(), repo, sinks...)
}

// loadFile registers c.file in svc and returns its catalog.
func (c *CLI) loadFile(svc *application.CatalogService) (*entities.Catalog, error) {
	data, err := os.ReadFile(c.file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.file, err)
	}
	cat, err := svc.Load(context.Background(), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.file, err)
	}
	return cat, nil
}

func (c *CLI) withRepo(fn func(ctx context.Context, repo output.CatalogRepository) error) error {
	if c.newRepo == nil {
		return domain.ErrNoRepository
	}
	ctx := context.Background()
	repo, release, err := c.newRepo(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx, repo)
}

func formatStats(s entities.Stats) string {
	return fmt.Sprintf("%d entries: %d translated (%.1f%%), %d fuzzy, %d untranslated, %d obsolete",
		s.Total, s.Translated, s.Percent(), s.Fuzzy, s.Untranslated, s.Obsolete)
}

func (c *CLI) runCheck(*kingpin.ParseContext) error {
	cat, err := c.loadFile(c.service(nil))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "✅ %s (%s): %s\n", c.file, cat.Language(), formatStats(cat.Stats()))
	return nil
}

func (c *CLI) runStats(*kingpin.ParseContext) error {
	cat, err := c.loadFile(c.service(nil))
	if err != nil {
		return err
	}
	h := cat.Header()
	s := cat.Stats()
	fmt.Fprintf(c.out, "Language:      %s\n", cat.Language())
	fmt.Fprintf(c.out, "Project:       %s\n", h.ProjectIDVersion())
	fmt.Fprintf(c.out, "Translator:    %s\n", h.LastTranslator())
	if pf := cat.PluralForms(); pf.NPlurals > 0 {
		fmt.Fprintf(c.out, "Plural forms:  %d (%s)\n", pf.NPlurals, pf.Expression)
	}
	fmt.Fprintf(c.out, "Total:         %d\n", s.Total)
	fmt.Fprintf(c.out, "Translated:    %d (%.1f%%)\n", s.Translated, s.Percent())
	fmt.Fprintf(c.out, "Fuzzy:         %d\n", s.Fuzzy)
	fmt.Fprintf(c.out, "Untranslated:  %d\n", s.Untranslated)
	fmt.Fprintf(c.out, "Obsolete:      %d\n", s.Obsolete)
	return nil
}

// runLookup prints the translation of key, or key itself when the catalog
// has none. With ARGS the verified translation is used as a format string.
func (c *CLI) runLookup(*kingpin.ParseContext) error {
	if len(c.args) > 0 && !c.hasContext {
		tr := i18n.NewTranslator("en")
		cat, err := c.loadFile(c.service(nil, tr))
		if err != nil {
			return err
		}
		args := make([]any, len(c.args))
		for i, a := range c.args {
			args[i] = a
		}
		fmt.Fprintln(c.out, tr.Sprintf(cat.Language(), c.key, args...))
		return nil
	}

	cat, err := c.loadFile(c.service(nil))
	if err != nil {
		return err
	}
	id := entities.MessageID(c.msgctxt, c.key)
	if c.hasContext {
		id = entities.ContextMessageID(c.msgctxt, c.key)
	}
	translation, ok := cat.LookupID(id)
	if !ok {
		log.WithFields(log.Fields{"locale": cat.Language(), "key": c.key}).Warn("⚠️ No translation, falling back to the key")
		translation = c.key
	}
	fmt.Fprintln(c.out, translation)
	return nil
}

func (c *CLI) runFmt(*kingpin.ParseContext) error {
	svc := c.service(nil)
	cat, err := c.loadFile(svc)
	if err != nil {
		return err
	}
	out, err := svc.Export(cat.Language(), "po")
	if err != nil {
		return err
	}
	if !c.write {
		_, err = c.out.Write(out)
		return err
	}
	if err := os.WriteFile(c.file, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.file, err)
	}
	log.WithField("file", c.file).Info("📝 Catalog formatted")
	return nil
}

func (c *CLI) runExport(*kingpin.ParseContext) error {
	svc := c.service(nil)
	cat, err := c.loadFile(svc)
	if err != nil {
		return err
	}
	out, err := svc.Export(cat.Language(), c.format)
	if err != nil {
		return err
	}
	_, err = c.out.Write(out)
	return err
}

func (c *CLI) runImport(*kingpin.ParseContext) error {
	return c.withRepo(func(ctx context.Context, repo output.CatalogRepository) error {
		svc := c.service(repo)
		cat, err := c.loadFile(svc)
		if err != nil {
			return err
		}
		id, err := svc.Persist(ctx, cat.Language())
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, id)
		return nil
	})
}

func (c *CLI) runRestore(*kingpin.ParseContext) error {
	return c.withRepo(func(ctx context.Context, repo output.CatalogRepository) error {
		svc := c.service(repo)
		if _, err := svc.Restore(ctx, c.lang); err != nil {
			return err
		}
		out, err := svc.Serialize(c.lang)
		if err != nil {
			return err
		}
		if c.output == "" {
			_, err = c.out.Write(out)
			return err
		}
		if err := os.WriteFile(c.output, out, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", c.output, err)
		}
		return nil
	})
}

func (c *CLI) runSnapshots(*kingpin.ParseContext) error {
	return c.withRepo(func(ctx context.Context, repo output.CatalogRepository) error {
		snaps, err := c.service(repo).Snapshots(ctx, c.lang)
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			return fmt.Errorf("%w: %s", domain.ErrCatalogNotFound, c.lang)
		}
		for _, s := range snaps {
			fmt.Fprintf(c.out, "%s\t%s\t%s\t%d entries\n", s.ID, s.CreatedAt.Format(time.RFC3339), s.Project, s.Entries)
		}
		return nil
	})
}
