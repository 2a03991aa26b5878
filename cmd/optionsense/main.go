package main

import (
	"os"

	"github.com/optionsense/backend/cmd/optionsense/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
