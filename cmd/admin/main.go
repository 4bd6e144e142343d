package main

import (
	"os"

	"github.com/MIN2MAX-M/student-reg/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
