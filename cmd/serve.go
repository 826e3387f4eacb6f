package cmd

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand"

	"github.com/spf13/cobra"

	"github.com/ayasuda/kumitate/internal/builder"
	"github.com/ayasuda/kumitate/internal/logger"
	"github.com/ayasuda/kumitate/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the exercise API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8000", "Address to listen on")
	serveCmd.Flags().StringSlice("origin", nil, "Extra allowed CORS origins")
	serveCmd.Flags().String("log", "dev", "Log mode: dev or prod")
	serveCmd.Flags().Int64("seed", 0, "Random seed (0 = non-deterministic)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	origins, _ := cmd.Flags().GetStringSlice("origin")
	logMode, _ := cmd.Flags().GetString("log")

	log, err := logger.New(logMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	store, closeStore, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	b := builder.New(store, newRand(cmd))

	mode := ""
	if logMode == "prod" || logMode == "production" {
		mode = "release"
	}
	srv := server.New(b, store, log, server.Options{
		AllowedOrigins: origins,
		Mode:           mode,
	})

	log.Info("listening", "addr", addr)
	return srv.Router().Run(addr)
}

// newRand builds the injected random source: seeded when --seed is given,
// crypto-seeded otherwise.
func newRand(cmd *cobra.Command) *mrand.Rand {
	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		return mrand.New(mrand.NewSource(seed))
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return mrand.New(mrand.NewSource(1))
	}
	return mrand.New(mrand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}
