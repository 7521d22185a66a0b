package main

import (
	"os"

	"github.com/Tbelkk/Commit-Review/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
