package main

import (
	"os"

	"github.com/mcruz/enrollsys/internal/pkg/logger"
	"github.com/mcruz/enrollsys/internal/server"
)

// @title EnrollSys API
// @version 1.0
// @description Campus enrollment administration portal: candidate intake, invitation activation, role-based access and catalog management

// @contact.name Registrar IT
// @contact.email registrar-it@enrollsys.local

// @host localhost:8080
// @BasePath /api
// @schemes http https

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
