package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/passcode/internal/otp/entity"
	"github.com/shandysiswandi/passcode/internal/otp/usecase"
	"github.com/shandysiswandi/passcode/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for passcode issuance and verification.
type HTTPEndpoint struct {
	uc uc
}

// Issue creates a passcode for a phone number and queues its delivery.
// @Summary Issue passcode
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body IssueRequest true "Issue payload"
// @Success 200 {object} router.successResponse{data=IssueResponse}
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/otp/issue [post]
func (h *HTTPEndpoint) Issue(r *router.Request) (any, error) {
	var req IssueRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Issue(r.Context(), usecase.IssueInput{
		Identifier: req.Identifier,
	})
	if err != nil {
		return nil, err
	}

	return IssueResponse{
		Accepted:  resp.Accepted,
		ExpiresIn: int64(resp.ExpiresIn.Seconds()),
		Secret:    resp.Secret,
	}, nil
}

// Verify redeems a passcode.
// @Summary Verify passcode
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Verify payload"
// @Success 200 {object} router.successResponse{data=VerifyResponse}
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/otp/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		Identifier: req.Identifier,
		Candidate:  req.Candidate,
	})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{Verified: resp.Verified}, nil
}

func (h *HTTPEndpoint) DebugEntries(r *router.Request) (any, error) {
	resp, err := h.uc.Inspect(r.Context())
	if err != nil {
		return nil, err
	}

	return DebugEntriesResponse{
		Entries: lo.Map(resp.Entries, func(e entity.Entry, _ int) DebugEntry {
			return DebugEntry{
				Identifier: e.Identifier,
				Secret:     e.Secret,
				IssuedAt:   e.IssuedAt,
				ExpiresAt:  e.ExpiresAt,
				Expired:    e.Expired,
			}
		}),
		Live:     resp.Stats.Live,
		Issued:   resp.Stats.Issued,
		Redeemed: resp.Stats.Redeemed,
		Swept:    resp.Stats.Swept,
	}, nil
}
