package main

import (
	"os"

	"github.com/axekit/axe/cmd"
	"github.com/axekit/axe/internal/logging"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logging.Error(err.Error())
		logging.Close()
		os.Exit(1)
	}
}
