package lexicon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sevphysionet/sectioner/pkg/models"
)

const (
	ColumnSection     = "section"
	ColumnMatchPhrase = "match_phrase"
)

// Load reads a trigger table from path. A .txt file is tab-delimited and a
// .csv file comma-delimited; any other extension is a configuration error.
func Load(path string, policy DuplicatePolicy) (*Lexicon, error) {
	comma, err := delimiterFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, models.NewConfigurationError("unable to open trigger file", err)
	}
	defer f.Close()

	entries, err := ReadEntries(f, comma)
	if err != nil {
		return nil, fmt.Errorf("error reading trigger file %s: %w", path, err)
	}
	log.Debugf("read %d trigger rows from %s", len(entries), path)

	return New(entries, policy)
}

func delimiterFor(path string) (rune, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return '\t', nil
	case ".csv":
		return ',', nil
	default:
		return 0, models.NewConfigurationError(
			fmt.Sprintf("invalid trigger file %q: expected a .txt or .csv extension", path),
			nil,
		)
	}
}

// ReadEntries parses a delimited trigger table with a header row containing
// the section and match_phrase columns. Other columns are ignored.
func ReadEntries(r io.Reader, comma rune) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, models.NewConfigurationError("trigger file is empty", nil)
		}
		return nil, err
	}

	sectionCol, phraseCol := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch strings.ToLower(name) {
		case ColumnSection:
			sectionCol = i
		case ColumnMatchPhrase:
			phraseCol = i
		}
	}
	if sectionCol < 0 || phraseCol < 0 {
		return nil, models.NewConfigurationError(
			fmt.Sprintf(
				"trigger file header must contain %q and %q columns",
				ColumnSection,
				ColumnMatchPhrase,
			),
			nil,
		)
	}

	var entries []Entry
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if sectionCol >= len(record) || phraseCol >= len(record) {
			log.Warnf("trigger file line %d: missing columns, skipped", line)
			continue
		}
		group, phrase := record[sectionCol], record[phraseCol]
		if strings.TrimSpace(group) == "" || phrase == "" {
			log.Warnf("trigger file line %d: empty section or match_phrase, skipped", line)
			continue
		}
		entries = append(entries, Entry{Group: group, Phrase: phrase})
	}

	return entries, nil
}
