package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sevphysionet/sectioner/config"
	"github.com/sevphysionet/sectioner/internal"
	"github.com/sevphysionet/sectioner/pkg/store/postgres"
)

var (
	log *logrus.Logger

	cfgFile     string
	showVersion bool
	dumpConfig  bool
	generateKey bool
	fixturePath string
	lexiconPath string
)

var cmd = &cobra.Command{
	Use:   "sectioner",
	Short: "sectioner splits clinical notes into labeled sections using a lexicon of trigger phrases",
	RunE:  func(cmd *cobra.Command, args []string) error { return run(cmd.Context()) },
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Section every note of the configured source and export the results",
	RunE:  func(cmd *cobra.Command, args []string) error { return run(cmd.Context()) },
}

var sectionCmd = &cobra.Command{
	Use:     "section <file>...",
	Short:   "Section individual note files and print the blocks as JSON",
	Example: "sectioner section --lexicon triggers.txt note_1234.txt",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sectionFiles(cmd.OutOrStdout(), args)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the sectioning HTTP API",
	RunE:  func(cmd *cobra.Command, args []string) error { return serve(cmd.Context()) },
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test utilities",
}

var createFixturesCmd = &cobra.Command{
	Use:   "create-fixtures",
	Short: "Create a synthetic note corpus for testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		fixtureCount, _ := cmd.Flags().GetInt("count")
		outputDir, _ := cmd.Flags().GetString("outputDir")
		if err := postgres.GenerateFixtureData(fixtureCount, outputDir); err != nil {
			return err
		}
		fmt.Println("Fixtures created successfully.")
		return nil
	},
}

var loadFixturesCmd = &cobra.Command{
	Use:   "load-fixtures",
	Short: "Load fixtures for testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error configuring sectioner: %w", err)
		}
		db, err := postgres.NewPostgresConn(cfg.Source.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		postgres.EnableDebugLogging(db, log)

		if err := postgres.LoadFixtures(cmd.Context(), db, fixturePath); err != nil {
			return fmt.Errorf("failed to load fixtures: %w", err)
		}
		fmt.Println("Fixtures loaded successfully.")
		return nil
	},
}

var dumpJsonSchemaCmd = &cobra.Command{
	Use:     "json-schema",
	Short:   "Generates JSON Schema for the sectioner configuration file",
	Example: "sectioner json-schema > sectioner_config_schema.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := config.JSONSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(schema))
		return nil
	},
}

func init() {
	testCmd.AddCommand(createFixturesCmd)
	testCmd.AddCommand(loadFixturesCmd)
	cmd.AddCommand(runCmd)
	cmd.AddCommand(sectionCmd)
	cmd.AddCommand(serveCmd)
	cmd.AddCommand(testCmd)
	cmd.AddCommand(dumpJsonSchemaCmd)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml)")
	cmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "print version number")
	cmd.PersistentFlags().BoolVarP(&dumpConfig, "dump-config", "d", false, "dump config")
	cmd.PersistentFlags().
		BoolVarP(&generateKey, "generate-token", "g", false, "generate a new JWT token")

	sectionCmd.Flags().
		StringVarP(&lexiconPath, "lexicon", "l", "", "trigger table to use instead of lexicon.path")

	createFixturesCmd.Flags().Int("count", 100, "Number of synthetic notes to generate")
	createFixturesCmd.Flags().String("outputDir", "./test_data", "Path to output fixtures")
	loadFixturesCmd.Flags().
		StringVarP(&fixturePath, "fixturePath", "f", "./test_data", "Path containing fixtures to load")
}

// Execute executes the root cobra command.
func Execute() {
	log = internal.GetLogger()
	log.SetLevel(logrus.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(1)
	}
}
