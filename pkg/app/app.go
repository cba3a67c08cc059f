package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/sevphysionet/sectioner/config"
	"github.com/sevphysionet/sectioner/internal"
	"github.com/sevphysionet/sectioner/pkg/batch"
	"github.com/sevphysionet/sectioner/pkg/lexicon"
	"github.com/sevphysionet/sectioner/pkg/models"
	"github.com/sevphysionet/sectioner/pkg/sectioning"
	"github.com/sevphysionet/sectioner/pkg/store/filesystem"
	"github.com/sevphysionet/sectioner/pkg/store/postgres"
)

var log = internal.GetLogger()

// AppState holds the long-lived components shared by the CLI and the HTTP server.
// Source and SectionStore are nil until opened.
type AppState struct {
	Config       *config.Config
	Lexicon      *lexicon.Lexicon
	Segmenter    *sectioning.Segmenter
	Source       models.DocumentSource
	SectionStore models.SectionStore

	db *bun.DB
}

// NewAppState loads the lexicon named in cfg and builds the segmenter.
func NewAppState(cfg *config.Config) (*AppState, error) {
	policy, err := lexicon.ParseDuplicatePolicy(cfg.Lexicon.Duplicates)
	if err != nil {
		return nil, err
	}
	lex, err := lexicon.Load(cfg.Lexicon.Path, policy)
	if err != nil {
		return nil, err
	}
	log.Infof(
		"Loaded %d trigger phrases in %d groups from %s",
		lex.Len(),
		len(lex.Groups()),
		cfg.Lexicon.Path,
	)

	return NewAppStateWithLexicon(cfg, lex), nil
}

// NewAppStateWithLexicon builds the segmenter for an already loaded lexicon.
func NewAppStateWithLexicon(cfg *config.Config, lex *lexicon.Lexicon) *AppState {
	return &AppState{
		Config:  cfg,
		Lexicon: lex,
		Segmenter: sectioning.NewSegmenter(
			lex,
			sectioning.WithStrictNesting(cfg.Sectioning.StrictNesting),
		),
	}
}

// NewDriver returns a batch driver configured from the sectioning settings.
func (a *AppState) NewDriver() *batch.Driver {
	return batch.NewDriver(a.Segmenter, batch.Settings{
		Workers:       a.Config.Sectioning.Workers,
		FailFast:      a.Config.Sectioning.FailFast,
		ProgressEvery: a.Config.Sectioning.ProgressEvery,
	})
}

// OpenSource opens the configured document source and, when output.persist
// is set, the section store.
func (a *AppState) OpenSource(ctx context.Context) error {
	switch a.Config.Source.Type {
	case config.SourceTypeFilesystem:
		src, err := filesystem.NewNoteDir(a.Config.Source.Filesystem.Dir)
		if err != nil {
			return err
		}
		a.Source = src
	case config.SourceTypePostgres, "":
		db, err := a.postgres()
		if err != nil {
			return err
		}
		a.Source = postgres.NewNoteSource(db, a.Config.Source.Postgres.Table)
	default:
		return models.NewConfigurationError(
			fmt.Sprintf("source.type (%s) is not supported", a.Config.Source.Type),
			nil,
		)
	}
	log.Info("Using document source: ", a.Config.Source.Type)

	if a.Config.Output.Persist {
		return a.OpenSectionStore(ctx)
	}
	return nil
}

// OpenSectionStore connects to postgres and creates the note_section table if needed.
func (a *AppState) OpenSectionStore(ctx context.Context) error {
	db, err := a.postgres()
	if err != nil {
		return err
	}
	sectionStore, err := postgres.NewSectionStore(ctx, db)
	if err != nil {
		return err
	}
	a.SectionStore = sectionStore
	return nil
}

// postgres returns the shared connection, opening it on first use.
func (a *AppState) postgres() (*bun.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	if a.Config.Source.Postgres.DSN == "" {
		return nil, models.NewConfigurationError("source.postgres.dsn must be set", nil)
	}
	db, err := postgres.NewPostgresConn(a.Config.Source.Postgres.DSN)
	if err != nil {
		return nil, err
	}
	if a.Config.Log.Level == "debug" {
		postgres.EnableDebugLogging(db, log)
	}
	a.db = db
	return db, nil
}

// Close releases the document source and the database connection.
func (a *AppState) Close() error {
	var errs []error
	if a.Source != nil {
		if err := a.Source.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	// the postgres note source closes the shared connection itself
	if _, ok := a.Source.(*postgres.NoteSource); !ok && a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
