package bulk

import (
	"context"
	"io"
	"log/slog"

	"github.com/arcanaland/gatherer/internal/errors"
	"github.com/arcanaland/gatherer/internal/fsx"
	"github.com/arcanaland/gatherer/internal/scryfall"
)

type syncWriteCloser interface {
	io.WriteCloser
	Sync() error
}

// Swappable so tests can force a failing destination.
var createFile = func(path string) (syncWriteCloser, error) {
	f, err := fsx.CreateExclusive(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Fetcher downloads bulk payloads into cache files.
type Fetcher struct {
	transport scryfall.Transport
	logger    *slog.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(t scryfall.Transport, logger *slog.Logger) *Fetcher {
	return &Fetcher{transport: t, logger: logger}
}

// EnsureDownloaded writes d's payload to dst unless dst already exists.
//
// An existing file is trusted as is: no network call, no checksum. A failed download
// leaves the partial file behind for inspection.
func (f *Fetcher) EnsureDownloaded(ctx context.Context, d Descriptor, dst string) error {
	info, exists, err := fsx.Stat(dst)
	if err != nil {
		return errors.IO("stat "+dst, err)
	}
	if exists {
		f.logger.Info("bulk data already downloaded", "name", d.Name, "path", dst)
		if d.Size > 0 && info.Size() != d.Size {
			f.logger.Warn("bulk data size differs from advertised size",
				"path", dst, "size", info.Size(), "advertised", d.Size)
		}
		return nil
	}

	f.logger.Info("downloading bulk data", "name", d.Name, "uri", d.DownloadURI)

	// Open the stream first so a refused request leaves no empty file behind.
	body, err := f.transport.FetchStream(ctx, d.DownloadURI)
	if err != nil {
		return err
	}
	defer body.Close()

	file, err := createFile(dst)
	if err != nil {
		return errors.IO("create "+dst, err)
	}
	defer file.Close()

	n, err := fsx.CopyStream(file, body)
	if err != nil {
		return err
	}
	if err := file.Sync(); err != nil {
		return errors.IO("sync "+dst, err)
	}
	if err := file.Close(); err != nil {
		return errors.IO("close "+dst, err)
	}

	f.logger.Info("bulk data downloaded", "path", dst, "bytes", n)
	return nil
}
