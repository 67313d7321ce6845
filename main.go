package main

import (
	"log"

	"smc-analyzer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("could not run smc-analyzer: %v", err)
	}
}
