package main

import (
	"log"

	"github.com/zarkzo/ich-review/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("ich-review: %v", err)
	}
}
