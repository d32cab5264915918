package main

import (
	"github.com/semmidev/arsip/internal/cli"
)

func main() {
	cli.Execute()
}
