package main

import (
	"os"

	"github.com/OhanaFS/sizediff/cmd/sizediff/cmd"
)

func main() {
	os.Exit(cmd.Run(os.Args[1:], os.Stdout, os.Stderr))
}
