// Package dataset writes stored labeled tweets as the training archive
// consumed by the model training job.
package dataset

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ressKim-io/BullyGuard/internal/domain/entity"
	"github.com/ressKim-io/BullyGuard/internal/domain/repository"
)

const (
	// ArchiveName is the default archive file name
	ArchiveName = "processed_cyberbullying_dataset.zip"
	// CSVName is the single entry inside the archive
	CSVName = "processed_cyberbullying_dataset.csv"

	defaultBatchSize = 500
)

// Header is the CSV header row
var Header = []string{"text", "binary_label"}

// Stats summarizes one export
type Stats struct {
	Written int
	Skipped int
}

// Exporter streams tweets from a repository into a zip archive
type Exporter struct {
	tweetRepo repository.TweetRepository
	batchSize int
	logger    *zap.Logger
}

// NewExporter creates an exporter. A batchSize <= 0 uses the default.
func NewExporter(tweetRepo repository.TweetRepository, batchSize int, logger *zap.Logger) *Exporter {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		tweetRepo: tweetRepo,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Export writes the archive to w. Rows whose label is not one of the two
// classes are skipped and counted.
func (e *Exporter) Export(ctx context.Context, w io.Writer) (*Stats, error) {
	zw := zip.NewWriter(w)

	entry, err := zw.Create(CSVName)
	if err != nil {
		return nil, fmt.Errorf("create archive entry: %w", err)
	}

	cw := csv.NewWriter(entry)
	if err := cw.Write(Header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	stats := &Stats{}
	err = e.tweetRepo.Each(ctx, e.batchSize, func(t *entity.Tweet) error {
		if !t.HasKnownLabel() {
			stats.Skipped++
			e.logger.Debug("Skipping tweet with unknown label",
				zap.String("tweet_id", t.ID),
				zap.String("label", t.Label),
			)
			return nil
		}
		if err := cw.Write([]string{t.Text, t.Label}); err != nil {
			return err
		}
		stats.Written++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("export tweets: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}

	e.logger.Info("Dataset exported",
		zap.Int("written", stats.Written),
		zap.Int("skipped", stats.Skipped),
	)
	return stats, nil
}
