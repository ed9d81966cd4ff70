package main

import (
	"os"

	"github.com/protomem/charge-scheduler/internal/admincli"
)

func main() {
	cmd := admincli.NewRootCommand()

	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
