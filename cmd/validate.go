package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Schema-check a corpus data directory",
	Long: `Read the manifest, every chunk, and the distractor pool, validating each
document against its schema. Exits non-zero on the first failure.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	ctx := cmd.Context()
	m, err := store.Manifest(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("manifest: ok (%d sentences, %d chunks, languages %v)\n", m.Total, m.Chunks, m.Languages)

	total := 0
	for i := 0; i < m.Chunks; i++ {
		chunk, err := store.Chunk(ctx, i)
		if err != nil {
			return err
		}
		total += len(chunk)
	}
	fmt.Printf("chunks: ok (%d sentences)\n", total)
	if total != m.Total {
		return fmt.Errorf("manifest total %d does not match chunk contents %d", m.Total, total)
	}

	pool, err := store.Distractors(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("distractors: ok (%d languages)\n", len(pool))
	return nil
}
