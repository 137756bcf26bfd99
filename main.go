package main

import (
	"os"

	"AltCache/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
