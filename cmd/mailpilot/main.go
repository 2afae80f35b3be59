package main

import "github.com/nhle/mailpilot/internal/cli"

func main() {
	cli.Execute()
}
