package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayasuda/kumitate/internal/builder"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print a generated exercise as JSON (stateless dev tool)",
	Long: `Build one exercise and print the JSON payload the API would serve.

Useful for inspecting tile sets and distractor quality without running the server.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringSlice("lang", nil, "Language codes to build (default: all in manifest)")
	previewCmd.Flags().Int("id", -1, "Build the exercise for a specific sentence ID")
	previewCmd.Flags().Int64("seed", 0, "Random seed (0 = non-deterministic)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	langs, _ := cmd.Flags().GetStringSlice("lang")
	id, _ := cmd.Flags().GetInt("id")

	store, closeStore, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	b := builder.New(store, newRand(cmd))

	ctx := cmd.Context()
	var ex *builder.UnifiedExercise
	if id >= 0 {
		ex, err = b.BuildForSentence(ctx, id, langs)
	} else {
		ex, err = b.Build(ctx, langs)
	}
	if err != nil {
		return fmt.Errorf("build exercise: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(ex)
}
