package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"joblink-backend/internal/database"
	"joblink-backend/internal/logger"
)

// Server contain port which server are running on, database instance and logger
type Server struct {
	port int

	DB  *database.DBinstanceStruct
	Log *logrus.Logger
}

// NewServer construct new Server instance wrapped in an http.Server
func NewServer() (*http.Server, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		port = 8080
	}

	db, err := database.GetMainDB()
	if err != nil {
		return nil, fmt.Errorf("database failed to initialize: %w", err)
	}

	s := &Server{
		port: port,
		DB:   db,
		Log:  logger.New(),
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, nil
}
