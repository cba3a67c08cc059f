package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NoteSchema mirrors the columns of the MIMIC-III noteevents table that sectioning reads.
// The table name is overridden at query time with the configured, schema-qualified name.
type NoteSchema struct {
	bun.BaseModel `bun:"table:noteevents,alias:n" yaml:"-"`

	RowID       int64     `bun:"row_id,pk"                   yaml:"row_id"`
	SubjectID   int64     `bun:"subject_id,notnull"          yaml:"subject_id"`
	HadmID      int64     `bun:"hadm_id,nullzero"            yaml:"hadm_id,omitempty"`
	ChartDate   time.Time `bun:"chartdate,type:timestamp,nullzero" yaml:"chartdate,omitempty"`
	Category    string    `bun:"category"                    yaml:"category,omitempty"`
	Description string    `bun:"description"                 yaml:"description,omitempty"`
	Text        string    `bun:"text"                        yaml:"text"`
}

// SectionSchema stores one section block produced by a sectioning run.
type SectionSchema struct {
	bun.BaseModel `bun:"table:note_section,alias:ns" yaml:"-"`

	UUID       uuid.UUID `bun:",pk,type:uuid,default:gen_random_uuid()"                     yaml:"uuid,omitempty"`
	CreatedAt  time.Time `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp" yaml:"created_at,omitempty"`
	RunID      uuid.UUID `bun:"type:uuid,notnull"                                           yaml:"run_id"`
	DocumentID string    `bun:"row_id,notnull"                                              yaml:"row_id"`
	Title      string    `bun:"title,notnull"                                               yaml:"title"`
	Group      string    `bun:"section_group,notnull"                                       yaml:"section_group"`
	Text       string    `bun:"section_text,notnull"                                        yaml:"section_text"`
	Start      int       `bun:"start_offset,notnull"                                        yaml:"start"`
	End        int       `bun:"end_offset,notnull"                                          yaml:"end"`
	Index      int       `bun:"section_index,notnull"                                       yaml:"index"`
	SectionID  string    `bun:"section_id,notnull"                                          yaml:"section_id"`
}

var _ bun.BeforeAppendModelHook = (*SectionSchema)(nil)

func (s *SectionSchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	return nil
}

// Create lookup indexes after table creation
var _ bun.AfterCreateTableHook = (*SectionSchema)(nil)

func (*SectionSchema) AfterCreateTable(
	ctx context.Context,
	query *bun.CreateTableQuery,
) error {
	colsToIndex := []string{"row_id", "run_id", "section_group"}
	for _, col := range colsToIndex {
		_, err := query.DB().NewCreateIndex().
			Model((*SectionSchema)(nil)).
			Index(fmt.Sprintf("note_section_%s_idx", col)).
			Column(col).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

var tableList = []interface{}{
	&SectionSchema{},
}

// CreateSchema creates the section tables if they do not exist. The note corpus is
// read-only and never created here.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, schema := range tableList {
		_, err := db.NewCreateTable().
			Model(schema).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			// bun still trying to create indexes despite IfNotExists flag
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return fmt.Errorf("error creating table for schema %T: %w", schema, err)
		}
	}
	return nil
}
