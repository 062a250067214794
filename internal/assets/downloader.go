// Package assets downloads one image per card into the mirror.
package assets

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"time"

	"github.com/arcanaland/gatherer/internal/card"
	"github.com/arcanaland/gatherer/internal/errors"
	"github.com/arcanaland/gatherer/internal/fsx"
	"github.com/arcanaland/gatherer/internal/scryfall"
)

// Extension is appended to the card id to form the asset file name.
const Extension = ".png"

// Card ids become file names; anything outside this set could escape the asset dir.
var safeIDRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// Stats counts what SyncAll did.
type Stats struct {
	Downloaded int
	Skipped    int
}

// ProgressFunc is called after every card, skipped or downloaded.
type ProgressFunc func(done, total int, c card.Card, skipped bool)

// Downloader fetches card images one at a time, pausing after every attempted download.
type Downloader struct {
	transport scryfall.Transport
	interval  time.Duration
	logger    *slog.Logger
	progress  ProgressFunc
}

// NewDownloader creates a Downloader. After each attempted download, successful or
// not, it waits interval before the next card; an interval of zero disables the pause.
func NewDownloader(t scryfall.Transport, interval time.Duration, logger *slog.Logger) *Downloader {
	return &Downloader{
		transport: t,
		interval:  interval,
		logger:    logger,
	}
}

// OnProgress registers a progress callback.
func (d *Downloader) OnProgress(fn ProgressFunc) {
	d.progress = fn
}

// Path returns the asset file of id under dir.
func Path(dir, id string) string {
	return filepath.Join(dir, id+Extension)
}

// SyncAll downloads the image of every card whose asset file is missing, in order.
// The first error aborts the whole call; rerunning resumes because finished files
// are skipped.
func (d *Downloader) SyncAll(ctx context.Context, cards []card.Card, dir string) (Stats, error) {
	var stats Stats

	for i, c := range cards {
		skipped, err := d.syncOne(ctx, c, dir)
		if err != nil {
			return stats, fmt.Errorf("card %s (%s): %w", c.ID, c.Name, err)
		}
		if skipped {
			stats.Skipped++
		} else {
			stats.Downloaded++
		}
		if d.progress != nil {
			d.progress(i+1, len(cards), c, skipped)
		}
	}

	return stats, nil
}

func (d *Downloader) syncOne(ctx context.Context, c card.Card, dir string) (bool, error) {
	if !safeIDRE.MatchString(c.ID) {
		return false, errors.Decode(fmt.Sprintf("card id %q is not a safe file name", c.ID), nil)
	}

	dst := Path(dir, c.ID)
	exists, err := fsx.Exists(dst)
	if err != nil {
		return false, errors.IO("stat "+dst, err)
	}
	if exists {
		d.logger.Debug("image already downloaded", "id", c.ID, "name", c.Name)
		return true, nil
	}

	d.logger.Debug("downloading image", "id", c.ID, "name", c.Name, "uri", c.ImageURI)

	if err := d.download(ctx, c.ImageURI, dst); err != nil {
		return false, err
	}
	return false, d.pause(ctx)
}

func (d *Downloader) download(ctx context.Context, uri, dst string) error {
	body, err := d.transport.FetchStream(ctx, uri)
	if err != nil {
		return err
	}
	defer body.Close()

	file, err := fsx.CreateExclusive(dst)
	if err != nil {
		return errors.IO("create "+dst, err)
	}
	defer file.Close()

	if _, err := fsx.CopyStream(file, body); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return errors.IO("close "+dst, err)
	}
	return nil
}

// pause waits one interval or until ctx is done.
func (d *Downloader) pause(ctx context.Context) error {
	if d.interval <= 0 {
		return nil
	}
	timer := time.NewTimer(d.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return errors.Network("pause between downloads", ctx.Err())
	case <-timer.C:
		return nil
	}
}
