package main

import (
	"github.com/joho/godotenv"

	"ytrag/internal/cli"
)

func main() {
	// API keys may live in a local .env file; a missing file is fine.
	godotenv.Load()

	cli.Execute()
}
