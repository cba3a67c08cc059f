package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/sevphysionet/sectioner/config"
	"github.com/sevphysionet/sectioner/pkg/app"
	"github.com/sevphysionet/sectioner/pkg/auth"
	"github.com/sevphysionet/sectioner/pkg/batch"
	"github.com/sevphysionet/sectioner/pkg/export"
	"github.com/sevphysionet/sectioner/pkg/models"
	"github.com/sevphysionet/sectioner/pkg/server"
)

const redacted = "********"

// run sections the configured corpus, exports the section table and
// optionally persists the blocks.
func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if handleCLIOptions(cfg) {
		return nil
	}

	appState, err := app.NewAppState(cfg)
	if err != nil {
		log.Errorf("Error loading lexicon: %s", err)
		return err
	}
	defer closeAppState(appState)

	if err := appState.OpenSource(ctx); err != nil {
		log.Errorf("Error opening document source: %s", err)
		return err
	}

	runID := uuid.NewString()
	log.Infof("Starting sectioning run %s", runID)
	started := time.Now()

	collector := batch.NewCollector()
	err = appState.NewDriver().RunSource(
		ctx,
		appState.Source,
		cfg.Source.BatchSize,
		cfg.Source.Limit,
		collector,
	)
	if err != nil {
		log.Errorf("Sectioning run %s failed: %s", runID, err)
		return err
	}

	blocks := collector.Blocks()
	files, err := export.Export(
		cfg.Output.Dir,
		blocks,
		collector.SectionedDocuments(),
		collector.Missed(),
		time.Now(),
	)
	if err != nil {
		log.Errorf("Error exporting sections: %s", err)
		return err
	}

	if appState.SectionStore != nil {
		if err := appState.SectionStore.PutSections(ctx, runID, blocks); err != nil {
			log.Errorf("Error persisting sections: %s", err)
			return err
		}
		log.Infof("Persisted %s sections for run %s", humanize.Comma(int64(len(blocks))), runID)
	}

	log.Infof(
		"Run %s finished in %s: %s sections from %s notes written to %s, %s missed notes in %s",
		runID,
		time.Since(started).Round(time.Millisecond),
		humanize.Comma(int64(len(blocks))),
		humanize.Comma(int64(collector.SectionedDocuments())),
		files.Sections,
		humanize.Comma(int64(len(collector.Missed()))),
		files.Missed,
	)
	return nil
}

// serve starts the HTTP API and blocks until ctx is cancelled.
func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if handleCLIOptions(cfg) {
		return nil
	}

	appState, err := app.NewAppState(cfg)
	if err != nil {
		return err
	}
	defer closeAppState(appState)

	if cfg.Output.Persist {
		if err := appState.OpenSectionStore(ctx); err != nil {
			return err
		}
	}

	srv, err := server.Create(appState)
	if err != nil {
		return err
	}

	log.Infof("Starting sectioner server version %s", config.VersionString)
	log.Infof("Listening on: %s", srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

// sectionFiles sections each file as one document and writes the blocks as JSON.
func sectionFiles(w io.Writer, paths []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if lexiconPath != "" {
		cfg.Lexicon.Path = lexiconPath
	}

	appState, err := app.NewAppState(cfg)
	if err != nil {
		return err
	}

	results := make([]models.SectionResponse, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		result := appState.Segmenter.Section(models.Document{
			ID:   documentIDFromPath(path),
			Text: string(data),
		})
		if result.Missed() {
			log.Warnf("no sections found in %s", path)
		}
		results = append(results, models.SectionResponse{
			Sections: result.Blocks,
			Missed:   result.Missed(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Errorf("Error configuring sectioner: %s", err)
		return nil, err
	}
	config.SetLogLevel(cfg)
	return cfg, nil
}

// handleCLIOptions handles CLI options that don't require a run. It reports
// whether one was handled.
func handleCLIOptions(cfg *config.Config) bool {
	switch {
	case showVersion:
		fmt.Println(config.VersionString)
	case generateKey:
		token, err := auth.GenerateJWT(cfg)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(token)
	case dumpConfig:
		out, err := redactedConfigJSON(cfg)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(out))
	default:
		return false
	}
	return true
}

// redactedConfigJSON renders cfg with its secrets masked.
func redactedConfigJSON(cfg *config.Config) ([]byte, error) {
	var masked config.Config
	if err := copier.CopyWithOption(&masked, cfg, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	if masked.Auth.Secret != "" {
		masked.Auth.Secret = redacted
	}
	if masked.Source.Postgres.DSN != "" {
		masked.Source.Postgres.DSN = redacted
	}
	return json.MarshalIndent(masked, "", "  ")
}

func closeAppState(appState *app.AppState) {
	if err := appState.Close(); err != nil {
		log.Errorf("Error closing document source: %v", err)
	}
}
