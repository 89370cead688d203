package main

import (
	"os"

	"github.com/dsmmcken/devport/internal/cmd"
)

func main() {
	os.Exit(cmd.Main())
}
