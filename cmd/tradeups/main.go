package main

import (
	"github.com/andrescamacho/tradeups-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
