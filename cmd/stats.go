package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-language corpus coverage",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	ctx := cmd.Context()
	m, err := store.Manifest(ctx)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	// Translation coverage requires a full chunk scan.
	coverage := make(map[string]int)
	for i := 0; i < m.Chunks; i++ {
		chunk, err := store.Chunk(ctx, i)
		if err != nil {
			return fmt.Errorf("scan chunk %d: %w", i, err)
		}
		for _, sent := range chunk {
			for lang := range sent.Translations {
				coverage[lang]++
			}
		}
	}

	pool, err := store.Distractors(ctx)
	if err != nil {
		return fmt.Errorf("load distractor pool: %w", err)
	}

	fmt.Printf("Sentences: %d (%d chunks of %d)\n\n", m.Total, m.Chunks, m.ChunkSize)
	for _, lang := range m.Languages {
		pct := 0.0
		if m.Total > 0 {
			pct = 100 * float64(coverage[lang]) / float64(m.Total)
		}
		fmt.Printf("  %s  %7d translations (%5.1f%%)  %6d distractors\n",
			lang, coverage[lang], pct, len(pool[lang]))
	}
	return nil
}
