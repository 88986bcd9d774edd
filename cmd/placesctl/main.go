package main

import (
	"fmt"
	"os"

	"github.com/kailas-cloud/places/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.Deps{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
