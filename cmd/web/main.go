package main

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/devraulu/bamsearch/pkg/config"
	"github.com/devraulu/bamsearch/pkg/corpus"
	"github.com/devraulu/bamsearch/pkg/logger"
	"github.com/devraulu/bamsearch/pkg/output"
	"github.com/devraulu/bamsearch/pkg/storage"
)

//go:embed templates/*
var templates embed.FS

//go:embed static/*
var staticFiles embed.FS

// maxWebCount bounds how many hits a single web request may ask for.
const maxWebCount = 200

const recentRunsLimit = 50

type SearchResults struct {
	Query   string
	Corpus  string
	Tags    bool
	KWIC    bool
	Count   int
	Total   int
	Table   output.Table
	Corpora []string
	Notice  string
}

type RunsPage struct {
	Runs   []storage.RunSummary
	Notice string
}

var tmpl = template.Must(template.New("").ParseFS(templates, "templates/*.html"))

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		log.Fatal(err)
	}

	logger.InitLogger(cfg)

	client, err := corpus.NewClient(cfg.Corpus)
	if err != nil {
		log.Fatal(err)
	}
	searcher := corpus.NewSearcher(client, cfg.Corpus.PageSize)

	var store storage.Storage
	if cfg.DSN != "" {
		pg, err := storage.Open(cfg.DSN)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		store = pg
	}

	addr := ":8080"
	slog.Info("starting web server", "addr", addr, "endpoint", client.Endpoint(), "archive", store != nil)
	log.Fatal(http.ListenAndServe(addr, newMux(searcher, store, cfg)))
}

// newMux wires the handlers. store may be nil when no archive is configured.
func newMux(searcher *corpus.Searcher, store storage.Storage, cfg *config.Config) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleIndex(cfg))
	mux.HandleFunc("/search", handleSearch(searcher, store, cfg))
	mux.HandleFunc("/runs", handleRuns(store))

	staticFS, _ := fs.Sub(staticFiles, "static")
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	return mux
}

func corpora() []string {
	return []string{corpus.CorpusNonTonal, corpus.CorpusTonal, corpus.CorpusBrut}
}

func handleIndex(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("request", "method", r.Method, "path", r.URL.Path)
		tmpl.ExecuteTemplate(w, "index.html", SearchResults{
			Corpus:  cfg.Corpus.DefaultCorpus,
			Count:   corpus.DefaultCount,
			KWIC:    true,
			Corpora: corpora(),
		})
	}
}

func handleSearch(searcher *corpus.Searcher, store storage.Storage, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		res := SearchResults{
			Query:   params.Get("q"),
			Corpus:  params.Get("corpus"),
			Tags:    params.Get("tag") == "on" || params.Get("tag") == "true",
			KWIC:    params.Get("kwic") != "false",
			Count:   corpus.DefaultCount,
			Corpora: corpora(),
		}
		if res.Corpus == "" {
			res.Corpus = cfg.Corpus.DefaultCorpus
		}
		if n, err := strconv.Atoi(params.Get("n")); err == nil && n > 0 {
			res.Count = min(n, maxWebCount)
		}

		if res.Query == "" {
			tmpl.ExecuteTemplate(w, "results.html", res)
			return
		}

		slog.Info("search", slog.String("query", res.Query), slog.String("corpus", res.Corpus))

		rs, err := searcher.Search(r.Context(), corpus.Query{
			Term:   res.Query,
			Corpus: res.Corpus,
			Tags:   res.Tags,
			Count:  res.Count,
		})

		var partial *corpus.PartialError
		switch {
		case errors.Is(err, corpus.ErrNoResults), rs == nil && errors.Is(err, corpus.ErrParse):
			rs = nil
		case errors.As(err, &partial):
			res.Notice = "Some pages could not be fetched; results are incomplete."
		case errors.Is(err, corpus.ErrInvalidQuery):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			slog.Error("search failed", slog.String("query", res.Query), slog.Any("err", err))
			http.Error(w, "Search failed", http.StatusBadGateway)
			return
		}

		if rs.Len() == 0 {
			res.Notice = "Nothing found for \"" + res.Query + "\"."
			tmpl.ExecuteTemplate(w, "results.html", res)
			return
		}

		mode := output.KWIC
		if !res.KWIC {
			mode = output.Flat
		}
		res.Total = rs.Total
		res.Table = output.Format(rs.Hits, mode)

		if store != nil {
			if err := store.SaveRun(r.Context(), storage.NewRun(rs)); err != nil {
				slog.Error("failed to archive run", slog.String("query", res.Query), slog.Any("err", err))
			}
		}

		tmpl.ExecuteTemplate(w, "results.html", res)
	}
}

func handleRuns(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			tmpl.ExecuteTemplate(w, "runs.html", RunsPage{Notice: "No archive configured."})
			return
		}

		runs, err := store.RecentRuns(r.Context(), recentRunsLimit)
		if err != nil {
			slog.Error("recent runs failed", slog.Any("err", err))
			http.Error(w, "Could not load archived runs", http.StatusInternalServerError)
			return
		}

		slog.Info("recent runs", slog.Int("runs", len(runs)))
		tmpl.ExecuteTemplate(w, "runs.html", RunsPage{Runs: runs})
	}
}
