package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sparkle-learn/platform/internal/enquiry"
	"github.com/sparkle-learn/platform/internal/platform/httpx"
	"github.com/sparkle-learn/platform/internal/platform/requestctx"
)

const maxEnquiryBodyBytes = 64 << 10

// EnquiryService submits leads.
type EnquiryService interface {
	Submit(ctx context.Context, sub enquiry.Submission) (enquiry.Receipt, error)
}

// EnquiryHandlers accepts enquiry form submissions.
type EnquiryHandlers struct {
	enquiries EnquiryService
	limiter   rateLimiter
}

// EnquiryOption customises EnquiryHandlers.
type EnquiryOption func(*EnquiryHandlers)

// WithEnquiryRateLimit caps submissions per client per minute. Zero disables the cap.
func WithEnquiryRateLimit(perMinute int, clock func() time.Time) EnquiryOption {
	return func(h *EnquiryHandlers) {
		h.limiter = newKeyedRateLimiter(perMinute, clock)
	}
}

// NewEnquiryHandlers constructs enquiry handlers.
func NewEnquiryHandlers(svc EnquiryService, opts ...EnquiryOption) *EnquiryHandlers {
	h := &EnquiryHandlers{enquiries: svc}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Routes registers the enquiry endpoint.
func (h *EnquiryHandlers) Routes(r chi.Router) {
	r.Post("/enquiries", h.create)
}

func (h *EnquiryHandlers) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.limiter != nil && !h.limiter.Allow(clientKey(r)) {
		w.Header().Set("Retry-After", "60")
		httpx.WriteError(ctx, w, httpx.ErrorFor(httpx.CodeRateLimited, "too many enquiries, please try again shortly"))
		return
	}

	var sub enquiry.Submission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEnquiryBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sub); err != nil {
		httpx.WriteError(ctx, w, httpx.ErrorFor(httpx.CodeInvalidJSON, "request body must be a JSON enquiry"))
		return
	}

	receipt, err := h.enquiries.Submit(ctx, sub)
	if err != nil {
		var verr *enquiry.ValidationError
		switch {
		case errors.As(err, &verr):
			httpx.WriteError(ctx, w, httpx.ErrorFor(httpx.CodeInvalidEnquiry, "please correct the highlighted fields").
				WithDetails(map[string]any{"fields": verr.Fields}))
		default:
			requestctx.Logger(ctx).Error("enquiry submission failed", zap.Error(err))
			httpx.WriteError(ctx, w, httpx.ErrorFor(httpx.CodeEnquiryFailed, "we could not submit your enquiry, please try again"))
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"status":  "received",
		"receipt": receipt,
	})
}
