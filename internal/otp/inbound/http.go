package inbound

import (
	"context"

	"github.com/shandysiswandi/passcode/internal/otp/usecase"
	"github.com/shandysiswandi/passcode/internal/pkg/router"
)

type uc interface {
	Issue(ctx context.Context, in usecase.IssueInput) (*usecase.IssueOutput, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
	Inspect(ctx context.Context) (*usecase.InspectOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/otp/issue", end.Issue)
	r.POST("/api/v1/otp/verify", end.Verify)
}

// RegisterDebugEndpoint exposes the stored passcodes. Never call it in production.
func RegisterDebugEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/otp/debug/entries", end.DebugEntries)
}
