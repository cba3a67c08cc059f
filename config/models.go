package config

// Config holds the configuration of the application
// Use config.LoadConfig to create a new instance
type Config struct {
	Log        LogConfig        `mapstructure:"log"        json:"log"`
	Lexicon    LexiconConfig    `mapstructure:"lexicon"    json:"lexicon"`
	Source     SourceConfig     `mapstructure:"source"     json:"source"`
	Sectioning SectioningConfig `mapstructure:"sectioning" json:"sectioning"`
	Output     OutputConfig     `mapstructure:"output"     json:"output"`
	Server     ServerConfig     `mapstructure:"server"     json:"server"`
	Auth       AuthConfig       `mapstructure:"auth"       json:"auth"`
}

type LogConfig struct {
	Level string `mapstructure:"level" json:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
}

// LexiconConfig points at the trigger phrase table. Path must end in .txt
// (tab-delimited) or .csv (comma-delimited).
type LexiconConfig struct {
	Path string `mapstructure:"path" json:"path" validate:"required"`
	// Duplicates decides what happens when a phrase appears more than once.
	Duplicates string `mapstructure:"duplicates" json:"duplicates" validate:"oneof=warn last reject"`
}

type SourceConfig struct {
	Type       string                 `mapstructure:"type"       json:"type"       validate:"oneof=postgres filesystem"`
	BatchSize  int                    `mapstructure:"batch_size" json:"batch_size" validate:"min=1"`
	Limit      int                    `mapstructure:"limit"      json:"limit"      validate:"min=0"`
	Postgres   PostgresConfig         `mapstructure:"postgres"   json:"postgres"`
	Filesystem FilesystemSourceConfig `mapstructure:"filesystem" json:"filesystem"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn" json:"dsn"`
	// Table holding the note corpus, optionally schema qualified.
	Table string `mapstructure:"table" json:"table"`
}

type FilesystemSourceConfig struct {
	Dir string `mapstructure:"dir" json:"dir"`
}

type SectioningConfig struct {
	Workers       int  `mapstructure:"workers"        json:"workers"        validate:"min=1"`
	FailFast      bool `mapstructure:"fail_fast"      json:"fail_fast"`
	StrictNesting bool `mapstructure:"strict_nesting" json:"strict_nesting"`
	ProgressEvery int  `mapstructure:"progress_every" json:"progress_every" validate:"min=0"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir" json:"dir"`
	// Persist writes section blocks to the note_section table.
	Persist bool `mapstructure:"persist" json:"persist"`
}

type ServerConfig struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port" validate:"min=0,max=65535"`
}

type AuthConfig struct {
	Secret   string `mapstructure:"secret"   json:"secret"`
	Required bool   `mapstructure:"required" json:"required"`
}
