package main

import (
	"github.com/danctnix/tweaks/pkg/cli"
)

func main() {
	cli.Execute()
}
