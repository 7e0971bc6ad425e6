package main

import (
	"log"
	"os"

	"github.com/brandonbloom/cargo-dev-install/internal/cli"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("cargo-dev-install: ")
	if err := cli.Execute(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
