package main

import (
	"os"

	"github.com/mydehq/organizer/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
