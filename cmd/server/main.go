package main

import (
	"log"

	_ "dataplatform/docs"
	"dataplatform/internal/config"
	"dataplatform/internal/server"
)

// @title           Data Platform API
// @version         1.0
// @description     Internal data-management API for operational records.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
