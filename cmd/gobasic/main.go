package main

import (
	"os"

	"github.com/cwbudde/go-basic/cmd/gobasic/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
