package main

import (
	"os"

	"github.com/yahsan2/gh-csv-issues/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
