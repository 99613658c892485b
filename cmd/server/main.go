package main

import (
	"os"

	"github.com/arigopay/backend/internal/cli"
)

// @title Arigo Pay Settlement API
// @version 1.0
// @description Paystack webhook settlement and account read API
// @host localhost:8080
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
