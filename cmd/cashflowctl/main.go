package main

import (
	"os"

	"github.com/Dan9191/cashflow-service/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
