package main

import (
	"os"

	"github.com/Saro259/TalentMatch-AI/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
