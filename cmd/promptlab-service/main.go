package main

import (
	"os"

	"github.com/promptlab/promptlab/promptservice"
)

func main() {
	if err := promptservice.Run(); err != nil {
		os.Exit(1)
	}
}
