package main

import (
	"os"

	"github.com/klyve/vodctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
