package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
