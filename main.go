package main

import (
	"os"

	"github.com/hanley0809-ux/climbing-points-app/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
