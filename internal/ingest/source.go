package ingest

import (
	"context"
	"os"
	"path/filepath"

	"github.com/andresuchdata/vendsight/internal/config"
	"github.com/andresuchdata/vendsight/internal/domain"
	"github.com/andresuchdata/vendsight/internal/storage"
	"github.com/rs/zerolog/log"
)

// Loader produces one full transaction batch. The whole derived chain is
// rebuilt from whatever it returns; there is no incremental path.
type Loader func(ctx context.Context) ([]domain.TransactionRecord, error)

// NewBatchLoader wires the configured input source: an optional one-shot
// download from object storage, then a strict parse of the local file or
// directory of files.
func NewBatchLoader(cfg *config.Config, store *storage.Client) Loader {
	return func(ctx context.Context) ([]domain.TransactionRecord, error) {
		path := cfg.App.InputPath

		if store != nil && cfg.Storage.ObjectKey != "" {
			dest := filepath.Join(cfg.Storage.DownloadDir, filepath.Base(cfg.Storage.ObjectKey))
			if err := store.DownloadObject(ctx, cfg.Storage.ObjectKey, dest); err != nil {
				return nil, err
			}
			log.Info().Str("object", cfg.Storage.ObjectKey).Str("dest", dest).Msg("fetched input batch from object storage")
			path = dest
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, &domain.LoadError{File: path, Err: err}
		}
		if info.IsDir() {
			return LoadDir(ctx, path)
		}
		return Load(path)
	}
}
