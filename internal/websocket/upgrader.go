package websocket

import (
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/websocket"
)

// Upgrader upgrades HTTP requests to WebSocket connections.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow specific origins for WebSocket connections
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		allowedOrigins := []string{
			"http://localhost:3000",  // Frontend dev server
			"https://localhost:3000", // Frontend dev server (HTTPS)
			"http://localhost",       // Nginx proxy (Docker)
			"https://localhost",      // Nginx proxy (HTTPS)
			"http://127.0.0.1:3000",  // Alternative localhost
			"http://127.0.0.1",       // Alternative localhost (Nginx)
		}

		// Add custom origins from environment variable if set
		if customOrigins := os.Getenv("ALLOWED_ORIGINS"); customOrigins != "" {
			for _, customOrigin := range strings.Split(customOrigins, ",") {
				allowedOrigins = append(allowedOrigins, strings.TrimSpace(customOrigin))
			}
		}

		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin {
				return true
			}
		}

		// For development/testing, allow any localhost variations
		if origin != "" && (strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")) {
			return true
		}

		return false
	},
}

// ServeWS upgrades the request, registers the resulting client with the hub
// and starts its read/write pumps.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request) (*Client, error) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	client := NewClient(hub, conn)
	hub.Register(client)

	go client.writePump()
	go client.readPump()

	return client, nil
}
