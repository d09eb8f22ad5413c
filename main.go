package main

import (
	"os"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
