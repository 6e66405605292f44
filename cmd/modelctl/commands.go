package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ressKim-io/BullyGuard/internal/adapter/dataset"
	"github.com/ressKim-io/BullyGuard/internal/adapter/repository/postgres"
	"github.com/ressKim-io/BullyGuard/internal/domain/repository"
	"github.com/ressKim-io/BullyGuard/internal/infrastructure/artifact"
	"github.com/ressKim-io/BullyGuard/internal/infrastructure/config"
	"github.com/ressKim-io/BullyGuard/internal/infrastructure/database"
	"github.com/ressKim-io/BullyGuard/internal/infrastructure/logger"
	"github.com/ressKim-io/BullyGuard/internal/infrastructure/storage"
)

// --- verify ---

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that the model artifact is complete and uses the two-label mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			model, err := artifact.Load(dir)
			if err != nil {
				return err
			}

			labels := make([]string, len(model.Labels))
			for i, l := range model.Labels {
				labels[i] = fmt.Sprintf("%d=%s", i, l)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "model dir:    %s\n", model.Dir)
			fmt.Fprintf(out, "model type:   %s\n", model.ModelType)
			if model.Architecture != "" {
				fmt.Fprintf(out, "architecture: %s\n", model.Architecture)
			}
			fmt.Fprintf(out, "labels:       %s\n", strings.Join(labels, ", "))

			files, err := artifact.Files(dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "files:        %s\n", strings.Join(files, ", "))
			return nil
		},
	}
	cmd.Flags().String("dir", "model", "model artifact directory")
	return cmd
}

// --- fix-labels ---

func newFixLabelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix-labels",
		Short: "Rewrite id2label and label2id in config.json to the canonical mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			changed, err := artifact.FixLabels(dir)
			if err != nil {
				return err
			}

			if changed {
				fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", filepath.Join(dir, artifact.ConfigFile))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already uses the canonical labels\n", filepath.Join(dir, artifact.ConfigFile))
			}
			return nil
		},
	}
	cmd.Flags().String("dir", "model", "model artifact directory")
	return cmd
}

// --- export-dataset ---

func newExportDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-dataset",
		Short: "Write stored labeled tweets as the training dataset archive",
		Long: `Write stored labeled tweets as the training dataset archive.

Examples:
  modelctl export-dataset --config config.yaml
  modelctl export-dataset --config config.yaml --out data/train.zip --upload`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			outPath, _ := cmd.Flags().GetString("out")
			upload, _ := cmd.Flags().GetBool("upload")
			batchSize, _ := cmd.Flags().GetInt("batch-size")

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log, err := logger.NewLogger(&cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			tweetRepo, closeRepo, err := openTweetRepository(cfg, log)
			if err != nil {
				return err
			}
			defer closeRepo()

			stats, err := writeArchive(cmd, dataset.NewExporter(tweetRepo, batchSize, log), outPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s (skipped %d)\n", stats.Written, outPath, stats.Skipped)

			if !upload {
				return nil
			}

			uploader, err := storage.NewMinIOUploader(&cfg.MinIO, log)
			if err != nil {
				return err
			}
			if err := uploadArchive(cmd, uploader, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s to bucket %s\n", filepath.Base(outPath), cfg.MinIO.Bucket)
			return nil
		},
	}
	cmd.Flags().String("config", "config.yaml", "path to the YAML config file")
	cmd.Flags().String("out", filepath.Join("data", dataset.ArchiveName), "archive output path")
	cmd.Flags().Bool("upload", false, "upload the archive to the configured MinIO bucket")
	cmd.Flags().Int("batch-size", 500, "rows read per database batch")
	return cmd
}

func openTweetRepository(cfg *config.Config, log *zap.Logger) (repository.TweetRepository, func(), error) {
	if cfg.Database.UseInMemory {
		return nil, nil, errors.New("export-dataset needs a database: database.use_in_memory has nothing to export")
	}

	db, err := database.NewPostgresDB(&cfg.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return postgres.NewTweetRepository(db), func() { _ = database.Close(db) }, nil
}

// writeArchive exports into a temp file next to outPath and renames it into place
func writeArchive(cmd *cobra.Command, exporter *dataset.Exporter, outPath string) (*dataset.Stats, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".export-*.zip")
	if err != nil {
		return nil, fmt.Errorf("create temp archive: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	stats, err := exporter.Export(cmd.Context(), tmp)
	if err != nil {
		_ = tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return nil, fmt.Errorf("move archive into place: %w", err)
	}
	return stats, nil
}

func uploadArchive(cmd *cobra.Command, uploader *storage.Uploader, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat archive: %w", err)
	}
	return uploader.UploadArchive(cmd.Context(), filepath.Base(path), f, info.Size())
}
