package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ayasuda/kumitate/internal/corpus"
)

var rootCmd = &cobra.Command{
	Use:   "kumitate",
	Short: "Sentence-tile exercises for language learners",
	Long: "Kumitate — builds shuffled word-tile exercises from a pre-tokenized parallel corpus\n" +
		"(Japanese, Chinese, Korean, Turkish) and grades reconstructed answers.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("data", "", "Path to the corpus data directory (overrides KUMITATE_DATA env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to a SQLite corpus database (used instead of --data when set)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDataDir returns the corpus directory using --data (highest
// priority), then KUMITATE_DATA, then the default XDG path.
func resolveDataDir(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("data"); p != "" {
		return p, nil
	}
	if p := os.Getenv("KUMITATE_DATA"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "kumitate"), nil
}

// openStore opens the corpus selected by flags — a SQLite database when
// --db is set, the chunked-JSON directory otherwise — wrapped in the
// read-through cache. The returned func releases any underlying handle.
func openStore(cmd *cobra.Command) (corpus.Store, func() error, error) {
	if dsn, _ := cmd.Flags().GetString("db"); dsn != "" {
		sqlStore, err := corpus.OpenSQL(dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open corpus database: %w", err)
		}
		return corpus.NewCache(sqlStore), sqlStore.Close, nil
	}

	dir, err := resolveDataDir(cmd)
	if err != nil {
		return nil, nil, err
	}
	return corpus.NewCache(corpus.NewDirStore(dir)), func() error { return nil }, nil
}
