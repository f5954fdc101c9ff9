package main

import (
	"os"

	"substackscraper/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
