package main

import (
	"log"

	"github.com/joho/godotenv"

	"gigmarket-backend/pkg/container"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	c, err := container.NewContainer()
	if err != nil {
		log.Fatalf("[Container] Failed to initialize: %v", err)
	}
	defer c.Cleanup()

	if err := serve(c); err != nil {
		log.Fatalf("[Server] Failed: %v", err)
	}
}
