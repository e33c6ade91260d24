package export

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/otherworld-codex/internal/catalog"
)

// Static file names read by the static-site browser.
const (
	FilterOptionsFile = "filter-options.json"
	CardMetaFile      = "card-meta.json"
	SearchIndexFile   = "search-index.json"
)

// staticSearchTypes are the entry kinds the static search box offers.
var staticSearchTypes = []catalog.EntryType{
	catalog.EntryCard,
	catalog.EntryEncounter,
	catalog.EntryScenario,
	catalog.EntryCampaign,
}

// StaticResult reports what WriteStatic produced.
type StaticResult struct {
	Files         []string
	Cards         int
	SearchEntries int
}

// WriteStatic writes the filter options, per-card hierarchy metadata and
// search index of a catalog into dir, replacing existing files.
func WriteStatic(ctx context.Context, dir string, cat *catalog.Catalog, pretty bool, logger *zap.Logger) (*StaticResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	entries := cat.SearchEntries(staticSearchTypes...)
	files := map[string]interface{}{
		FilterOptionsFile: cat.Options(),
		CardMetaFile:      cat.Index().Meta(),
		SearchIndexFile:   entries,
	}

	result := &StaticResult{
		Cards:         cat.Corpus().Len(),
		SearchEntries: len(entries),
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range []string{FilterOptionsFile, CardMetaFile, SearchIndexFile} {
		path := filepath.Join(dir, name)
		data := files[name]
		result.Files = append(result.Files, path)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return NewExporter(Options{
				Format:     FormatJSON,
				FilePath:   path,
				PrettyJSON: pretty,
				Overwrite:  true,
			}).Export(data)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("static data exported",
		zap.String("dir", dir),
		zap.Int("cards", result.Cards),
		zap.Int("search_entries", result.SearchEntries))
	return result, nil
}
