// Package pipeline runs one synchronization of the local mirror: bulk index, raw
// bulk payload, processed catalog, card images.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/arcanaland/gatherer/internal/assets"
	"github.com/arcanaland/gatherer/internal/bulk"
	"github.com/arcanaland/gatherer/internal/card"
	"github.com/arcanaland/gatherer/internal/catalog"
	"github.com/arcanaland/gatherer/internal/config"
	"github.com/arcanaland/gatherer/internal/errors"
	"github.com/arcanaland/gatherer/internal/fsx"
	"github.com/arcanaland/gatherer/internal/scryfall"
)

// Options configures a Run.
type Options struct {
	Paths     config.Paths
	Transport scryfall.Transport
	IndexURL  string
	BulkType  string
	Interval  time.Duration
	Logger    *slog.Logger

	// Progress, when set, is called after every card of the asset stage.
	Progress assets.ProgressFunc
}

// Result summarizes a finished Run.
type Result struct {
	// Descriptor is empty when the index lookup was skipped.
	Descriptor bulk.Descriptor
	// FromCache is true when the processed catalog was loaded rather than rebuilt.
	FromCache bool
	Cards     int
	Assets    assets.Stats
}

// Run executes every stage in order. Any error stops the run; stages that finished
// leave their files behind, so the next Run resumes where this one stopped.
func Run(ctx context.Context, opts Options) (Result, error) {
	var res Result

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.BulkType == "" {
		opts.BulkType = bulk.UniqueArtwork
	}

	if err := opts.Paths.EnsureDirs(); err != nil {
		return res, errors.IO("create mirror directories", err)
	}

	haveRaw, err := fsx.Exists(opts.Paths.BulkFile)
	if err != nil {
		return res, errors.IO("stat "+opts.Paths.BulkFile, err)
	}
	haveProcessed, err := fsx.Exists(opts.Paths.ProcessedFile)
	if err != nil {
		return res, errors.IO("stat "+opts.Paths.ProcessedFile, err)
	}

	// The descriptor is only needed to download the raw file.
	if haveRaw && haveProcessed {
		log.Info("bulk and processed data present, skipping index lookup")
	} else {
		idx, err := bulk.FetchIndex(ctx, opts.Transport, opts.IndexURL)
		if err != nil {
			return res, err
		}
		d, err := idx.Resolve(opts.BulkType)
		if err != nil {
			return res, err
		}
		res.Descriptor = d
		log.Info("resolved bulk dataset", "type", d.Type, "updated_at", d.UpdatedAt, "size", d.Size)

		if err := bulk.NewFetcher(opts.Transport, log).EnsureDownloaded(ctx, d, opts.Paths.BulkFile); err != nil {
			return res, err
		}
	}

	cards, err := loadOrBuild(opts.Paths, haveProcessed, log)
	if err != nil {
		return res, err
	}
	res.FromCache = haveProcessed
	res.Cards = len(cards)

	dl := assets.NewDownloader(opts.Transport, opts.Interval, log)
	if opts.Progress != nil {
		dl.OnProgress(opts.Progress)
	}

	stats, err := dl.SyncAll(ctx, cards, opts.Paths.AssetDir)
	res.Assets = stats
	if err != nil {
		return res, err
	}

	log.Info("sync finished", "cards", res.Cards, "downloaded", stats.Downloaded, "skipped", stats.Skipped)
	return res, nil
}

func loadOrBuild(p config.Paths, haveProcessed bool, log *slog.Logger) ([]card.Card, error) {
	if haveProcessed {
		log.Info("loading processed catalog", "path", p.ProcessedFile)
		return catalog.Load(p.ProcessedFile)
	}

	log.Info("transforming bulk data", "path", p.BulkFile)
	cards, err := card.Transform(p.BulkFile)
	if err != nil {
		return nil, err
	}
	if err := catalog.Save(cards, p.ProcessedFile); err != nil {
		return nil, err
	}
	log.Info("processed catalog written", "path", p.ProcessedFile, "cards", len(cards))
	return cards, nil
}
