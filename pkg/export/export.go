package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sevphysionet/sectioner/internal"
	"github.com/sevphysionet/sectioner/pkg/models"
)

var log = internal.GetLogger()

// Header is the column order downstream consumers of the section table expect.
var Header = []string{
	"row_id",
	"extracted_section_title",
	"section_group",
	"section_text",
	"start",
	"end",
	"index",
	"section_id",
}

const dateLayout = "2006-01-02"

// SectionsFileName names the section table after the number of distinct
// notes it covers and the export date.
func SectionsFileName(noteCount int, date time.Time) string {
	return fmt.Sprintf("sectioned_%d_notes_%s.txt", noteCount, date.Format(dateLayout))
}

func MissedFileName(date time.Time) string {
	return fmt.Sprintf("missed_notes_%s.txt", date.Format(dateLayout))
}

// WriteSections writes blocks as a tab-delimited table with a header row.
func WriteSections(w io.Writer, blocks []models.SectionBlock) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, b := range blocks {
		record := []string{
			b.DocumentID,
			b.Title,
			b.Group,
			b.Text,
			strconv.Itoa(b.Start),
			strconv.Itoa(b.End),
			strconv.Itoa(b.Index),
			b.SectionID,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMissed writes one document id per line.
func WriteMissed(w io.Writer, ids []string) error {
	for _, id := range ids {
		if _, err := io.WriteString(w, id+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Files holds the paths written by Export.
type Files struct {
	Sections string
	Missed   string
}

// Export writes the section table and the missed id list into dir.
func Export(
	dir string,
	blocks []models.SectionBlock,
	noteCount int,
	missed []string,
	date time.Time,
) (*Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}

	files := &Files{
		Sections: filepath.Join(dir, SectionsFileName(noteCount, date)),
		Missed:   filepath.Join(dir, MissedFileName(date)),
	}

	log.Info("Exporting sectioned results")
	if err := writeFile(files.Sections, func(w io.Writer) error {
		return WriteSections(w, blocks)
	}); err != nil {
		return nil, err
	}
	if err := writeFile(files.Missed, func(w io.Writer) error {
		return WriteMissed(w, missed)
	}); err != nil {
		return nil, err
	}
	log.Infof("Wrote %s and %s", files.Sections, files.Missed)

	return files, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
