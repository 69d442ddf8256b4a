package endpoints

import (
	"github.com/pauljbernard/content-sub002/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterAuthEndpoints(srv)
	RegisterContentTypeEndpoints(srv)
	RegisterInstanceEndpoints(srv)
	RegisterProfileEndpoints(srv)
	RegisterKBEndpoints(srv)
	RegisterStandardsEndpoints(srv)
	RegisterStatusEndpoints(srv)
}
