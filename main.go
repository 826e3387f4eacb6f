package main

import (
	"os"

	"github.com/ayasuda/kumitate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
