// Package main is the entry point for the wikimcp binary.
package main

import (
	"os"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/cli"
)

func main() {
	os.Exit(cli.Main())
}
