package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/devraulu/bamsearch/pkg/batch"
	"github.com/devraulu/bamsearch/pkg/config"
	"github.com/devraulu/bamsearch/pkg/corpus"
	"github.com/devraulu/bamsearch/pkg/logger"
	"github.com/devraulu/bamsearch/pkg/output"
	"github.com/devraulu/bamsearch/pkg/storage"
)

type options struct {
	configPath  string
	corpus      string
	tags        bool
	count       int
	kwic        bool
	write       bool
	queriesFile string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "bamsearch <query> [corpus]",
		Short: "Search the Corpus Bambara de Référence",
		Long: heredoc.Doc(`
			Query the Bamana concordance service and print or save keyword-in-context hits.

			The corpus defaults to corbama-net-non-tonal. Grammatical tags (--tags) are only
			added for corbama-net-tonal.

			Examples:
			  bamsearch jamana
			  bamsearch kɔ́nɔ corbama-net-tonal --tags --write
			  bamsearch -n 50 --kwic=false muso
			  bamsearch --queries-file terms.txt --write
		`),
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.queriesFile != "" {
				return cobra.MaximumNArgs(0)(cmd, args)
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.count < 1 {
				return fmt.Errorf("%w: --count must be at least 1, got %d", corpus.ErrInvalidQuery, opts.count)
			}

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("couldn't load config: %w", err)
			}
			logger.InitLogger(cfg)

			if len(args) == 2 {
				opts.corpus = args[1]
			}

			a, err := newApp(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			terms := args[:min(1, len(args))]
			if opts.queriesFile != "" {
				terms, err = batch.LoadQueries(opts.queriesFile)
				if err != nil {
					return err
				}
			}

			for _, term := range terms {
				if err := a.run(cmd.Context(), term, opts); err != nil {
					return err
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "config.toml", "path to the TOML config file")
	f.StringVarP(&opts.corpus, "corpus", "c", "", "corpus identifier (default from config)")
	f.BoolVarP(&opts.tags, "tags", "t", false, "append grammatical tags to keywords (tonal corpus only)")
	f.IntVarP(&opts.count, "count", "n", corpus.DefaultCount, "maximum number of hits")
	f.BoolVar(&opts.kwic, "kwic", true, "keep left, keyword and right in separate columns")
	f.BoolVarP(&opts.write, "write", "w", false, "write results to a delimited file")
	f.StringVarP(&opts.queriesFile, "queries-file", "f", "", "file with one search term per line")

	return cmd
}

type app struct {
	cfg      *config.Config
	searcher *corpus.Searcher
	writer   *output.Writer
	store    storage.Storage
	out      io.Writer
}

func newApp(cfg *config.Config, out io.Writer) (*app, error) {
	client, err := corpus.NewClient(cfg.Corpus)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		searcher: corpus.NewSearcher(client, cfg.Corpus.PageSize),
		writer:   output.NewWriter(cfg.Output),
		out:      out,
	}

	if cfg.DSN != "" {
		store, err := storage.Open(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("couldn't open archive: %w", err)
		}
		a.store = store
	}

	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

func (a *app) run(ctx context.Context, term string, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	corpusID := opts.corpus
	if corpusID == "" {
		corpusID = a.cfg.Corpus.DefaultCorpus
	}

	q := corpus.Query{
		Term:   term,
		Corpus: corpusID,
		Tags:   opts.tags,
		Count:  opts.count,
	}

	rs, err := a.searcher.Search(ctx, q)

	var partial *corpus.PartialError
	switch {
	case errors.Is(err, corpus.ErrNoResults):
		rs = nil
	case rs == nil && errors.Is(err, corpus.ErrParse):
		slog.Warn("first page could not be parsed", slog.String("query", term), slog.Any("err", err))
	case errors.As(err, &partial):
		slog.Warn("returning partial results", slog.String("query", term), slog.Any("err", err))
	case err != nil:
		return err
	}

	if rs.Len() == 0 {
		fmt.Fprintf(a.out, "bam_search: nothing found for \"%s\"\n", term)
		return nil
	}

	mode := output.KWIC
	if !opts.kwic {
		mode = output.Flat
	}
	tbl := output.Format(rs.Hits, mode)

	if opts.write {
		path, err := a.writer.Write(term, tbl)
		if err != nil {
			return err
		}
		slog.Info("results written", slog.String("path", path), slog.Int("rows", len(tbl.Rows)))
	} else if err := output.Print(a.out, tbl); err != nil {
		return err
	}

	if a.store != nil {
		if err := a.store.SaveRun(ctx, storage.NewRun(rs)); err != nil {
			slog.Error("failed to archive run", slog.String("query", term), slog.Any("err", err))
		}
	}

	return nil
}
