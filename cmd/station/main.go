package main

import (
	"github.com/stationsim/station-cli/internal/cli"
)

func main() {
	cli.Execute()
}
