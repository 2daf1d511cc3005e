package main

import (
	"fmt"
	"os"

	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/cmd/crossmini/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
