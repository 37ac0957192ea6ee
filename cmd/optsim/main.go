package main

import "github.com/darshanshenoy/optsim/internal/cli"

func main() {
	cli.Execute()
}
