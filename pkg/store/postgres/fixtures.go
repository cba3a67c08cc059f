package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dbfixture"
	"gopkg.in/yaml.v3"
)

// FixtureHeadings are the section headings written into synthetic notes.
var FixtureHeadings = []string{
	"CHIEF COMPLAINT:",
	"HISTORY OF PRESENT ILLNESS:",
	"PAST MEDICAL HISTORY:",
	"MEDICATIONS:",
	"ALLERGIES:",
	"PHYSICAL EXAM:",
	"ASSESSMENT AND PLAN:",
	"DISCHARGE DIAGNOSIS:",
}

var fixtureCategories = []string{"Discharge summary", "Nursing", "Physician ", "Radiology"}

type FixtureModel[T any] struct {
	Model string `yaml:"model"`
	Rows  []T    `yaml:"rows"`
}

type Fixtures[T any] []FixtureModel[T]

// GenerateNotes returns count synthetic notes. Roughly one note in ten has no
// headings at all so that runs over fixtures exercise the missed list.
func GenerateNotes(count int, seed int64) []NoteSchema {
	faker := gofakeit.NewUnlocked(seed)

	notes := make([]NoteSchema, count)
	for i := 0; i < count; i++ {
		notes[i] = NoteSchema{
			RowID:       int64(i + 1),
			SubjectID:   int64(faker.Number(10000, 99999)),
			HadmID:      int64(faker.Number(100000, 199999)),
			ChartDate:   faker.DateRange(time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC)),
			Category:    fixtureCategories[faker.Number(0, len(fixtureCategories)-1)],
			Description: "Report",
			Text:        generateNoteText(faker),
		}
	}
	return notes
}

func generateNoteText(faker *gofakeit.Faker) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Admission Date:  [**%s**]\n\n", faker.Date().Format("2006-1-2")))

	if faker.Number(1, 10) == 1 {
		sb.WriteString(faker.Paragraph(2, 4, 12, "\n"))
		return sb.String()
	}

	headings := make([]string, len(FixtureHeadings))
	copy(headings, FixtureHeadings)
	faker.ShuffleStrings(headings)
	for _, h := range headings[:faker.Number(2, len(headings))] {
		sb.WriteString(h)
		sb.WriteString("\n")
		sb.WriteString(faker.Sentence(faker.Number(5, 30)))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// GenerateFixtureData writes count synthetic notes to note_fixtures.yaml in outputDir.
func GenerateFixtureData(fixtureCount int, outputDir string) error {
	if outputDir == "" {
		outputDir = "./"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("unable to create %s: %w", outputDir, err)
	}

	noteFixture := Fixtures[NoteSchema]{
		{
			Model: "NoteSchema",
			Rows:  GenerateNotes(fixtureCount, time.Now().UnixNano()),
		},
	}

	return writeFixtureToYAML(noteFixture, outputDir, "note_fixtures.yaml")
}

func writeFixtureToYAML[T any](fixtures Fixtures[T], outputDir, filename string) error {
	data, err := yaml.Marshal(&fixtures)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filename, err)
	}

	path := filepath.Join(outputDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Infof("Fixtures generated successfully in %s", path)
	return nil
}

// LoadFixtures recreates the noteevents and note_section tables and loads every
// YAML fixture file found in fixturePath.
func LoadFixtures(ctx context.Context, db *bun.DB, fixturePath string) error {
	db.RegisterModel(
		(*NoteSchema)(nil),
		(*SectionSchema)(nil),
	)

	fixture := dbfixture.New(db, dbfixture.WithRecreateTables())

	files, err := os.ReadDir(fixturePath)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		switch filepath.Ext(file.Name()) {
		case ".yaml", ".yml":
			err := fixture.Load(ctx, os.DirFS(fixturePath), file.Name())
			if err != nil {
				return fmt.Errorf("failed to load fixture %s: %w", file.Name(), err)
			}
		}
	}

	if err := CreateSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
