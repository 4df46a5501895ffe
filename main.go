package main

import (
	"os"

	"github.com/talentops/benchmatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
