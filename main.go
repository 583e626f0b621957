package main

import (
	"os"

	"github.com/abisha-thapa/simulate-students-genai/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
