package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "ping",
		Method:      http.MethodGet,
		Path:        "/ping",
		Summary:     "Health check",
		Description: "Returns server status and version",
		Tags:        []string{"Health"},
	}, s.handlePing)
}

// PingResponse reports server liveness.
type PingResponse struct {
	Status  string `json:"status" doc:"Always \"ok\" when the server is up"`
	Version string `json:"version" doc:"Server version"`
}

// PingOutput wraps the ping response for Huma.
type PingOutput struct {
	Body PingResponse
}

func (s *Server) handlePing(_ context.Context, _ *struct{}) (*PingOutput, error) {
	return &PingOutput{Body: PingResponse{Status: "ok", Version: APIVersion}}, nil
}
