package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayasuda/kumitate/internal/builder"
	"github.com/ayasuda/kumitate/internal/language"
	"github.com/ayasuda/kumitate/internal/play"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Practice exercises in the terminal",
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().String("lang", "ja", "Target language code (ja, zh, ko, tr)")
	playCmd.Flags().Int64("seed", 0, "Random seed (0 = non-deterministic)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	code, _ := cmd.Flags().GetString("lang")
	if !language.Known(code) {
		return fmt.Errorf("unknown language %q: use one of ja, zh, ko, tr", code)
	}

	store, closeStore, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	b := builder.New(store, newRand(cmd))
	return play.Run(b, language.Lookup(code))
}
