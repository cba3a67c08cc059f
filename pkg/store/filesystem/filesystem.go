package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sevphysionet/sectioner/internal"
	"github.com/sevphysionet/sectioner/pkg/models"
	"github.com/sevphysionet/sectioner/pkg/store"
)

var log = internal.GetLogger()

const noteExt = ".txt"

var _ models.DocumentSource = (*NoteDir)(nil)

// NoteDir reads one note per .txt file in a directory. The document id is the
// file name without its extension. Subdirectories are not scanned.
type NoteDir struct {
	dir string
}

func NewNoteDir(dir string) (*NoteDir, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, models.NewConfigurationError("note directory is not readable", err)
	}
	if !info.IsDir() {
		return nil, models.NewConfigurationError(dir+" is not a directory", nil)
	}
	return &NoteDir{dir: dir}, nil
}

// GetDocumentIDs returns the stems of every regular .txt file in lexical order.
func (d *NoteDir) GetDocumentIDs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, store.NewStorageError("failed to list notes", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || filepath.Ext(e.Name()) != noteExt {
			continue
		}
		// symlinks are followed only to regular files
		info, err := os.Stat(filepath.Join(d.dir, e.Name()))
		if err != nil {
			return nil, store.NewStorageError("failed to stat "+e.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), noteExt))
	}
	return ids, nil
}

// GetDocuments reads the notes for ids in order. Ids with no file are skipped.
func (d *NoteDir) GetDocuments(ctx context.Context, ids []string) ([]models.Document, error) {
	docs := make([]models.Document, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// ids name files directly under dir
		if id == "" || id != filepath.Base(id) {
			log.Warnf("skipping invalid note id %q", id)
			continue
		}
		data, err := os.ReadFile(filepath.Join(d.dir, id+noteExt))
		if errors.Is(err, fs.ErrNotExist) {
			log.Debugf("note %s not found", id)
			continue
		}
		if err != nil {
			return nil, store.NewStorageError("failed to read note "+id, err)
		}
		docs = append(docs, models.Document{ID: id, Text: string(data)})
	}
	return docs, nil
}

func (d *NoteDir) Close() error {
	return nil
}
