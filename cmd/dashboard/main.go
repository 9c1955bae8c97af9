package main

import (
	"os"

	"github.com/yigit/fypdash/internal/pkg/logger"
	"github.com/yigit/fypdash/internal/server"
)

// @title Final Year Projects Dashboard API
// @version 1.0
// @description Backend-for-frontend of the final-year-projects dashboard: sessions, browsing pages, the project wizard and the edit panel.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Setup failures are logged in detail by the bootstrap functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
