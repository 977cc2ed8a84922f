package main

import (
	"os"

	"github.com/diffguard/diffguard/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
