package enquiry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sparkle-learn/platform/internal/backend"
	"github.com/sparkle-learn/platform/internal/catalog"
	"github.com/sparkle-learn/platform/internal/enquiry"
)

type recordingSender struct {
	requests []backend.EnquiryRequest
	err      error
}

func (r *recordingSender) CreateEnquiry(_ context.Context, req backend.EnquiryRequest) error {
	r.requests = append(r.requests, req)
	return r.err
}

type courseMap map[string]catalog.Course

func (m courseMap) ResolveCourse(_ context.Context, ref string) (catalog.Course, bool) {
	c, ok := m[ref]
	return c, ok
}

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func newService(t *testing.T, sender enquiry.Sender, courses enquiry.CourseResolver, opts ...enquiry.Option) *enquiry.Service {
	t.Helper()
	opts = append(opts, enquiry.WithClock(func() time.Time { return fixedNow }))
	svc, err := enquiry.NewService(sender, courses, opts...)
	require.NoError(t, err)
	return svc
}

func TestSubmitResolvesProgramSlug(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	courses := courseMap{"medical-laboratory-technology": {ID: "p1", Name: "Medical Laboratory Technology"}}
	svc := newService(t, sender, courses)

	receipt, err := svc.Submit(context.Background(), enquiry.Submission{
		Name:    "  Asha Rao ",
		Email:   "asha@example.com",
		Phone:   "+91 98765 43210",
		Program: "medical-laboratory-technology",
		Message: "Weekend batches?",
	})
	require.NoError(t, err)
	require.Len(t, sender.requests, 1)

	req := sender.requests[0]
	require.Equal(t, "Asha Rao", req.Name)
	require.Equal(t, "p1", req.CourseID)
	require.Equal(t, "Medical Laboratory Technology", req.CourseName)
	require.Equal(t, "Weekend batches?", req.Message)
	require.Equal(t, enquiry.Receipt{CourseID: "p1", CourseName: "Medical Laboratory Technology", SubmittedAt: fixedNow}, receipt)
}

func TestSubmitDropsUnknownCourse(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	sender := &recordingSender{}
	svc := newService(t, sender, courseMap{}, enquiry.WithLogger(zap.New(core)))

	_, err := svc.Submit(context.Background(), enquiry.Submission{
		Name:     "Ravi",
		Email:    "ravi@example.com",
		Phone:    "9876543210",
		CourseID: "retired-course",
	})
	require.NoError(t, err)
	require.Len(t, sender.requests, 1)
	require.Empty(t, sender.requests[0].CourseID)
	require.Empty(t, sender.requests[0].CourseName)
	require.Equal(t, 1, logs.Len())
}

func TestSubmitWithoutResolver(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	svc := newService(t, sender, nil)

	_, err := svc.Submit(context.Background(), enquiry.Submission{Name: "A", Email: "a@example.com", Phone: "1", Program: "x"})
	require.NoError(t, err)
	require.Empty(t, sender.requests[0].CourseID)
}

func TestSubmitValidation(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	svc := newService(t, sender, nil)

	_, err := svc.Submit(context.Background(), enquiry.Submission{Name: "   ", Email: "not-an-email"})
	require.Error(t, err)
	require.True(t, errors.Is(err, enquiry.ErrInvalidEnquiry))

	var verr *enquiry.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "name")
	require.Contains(t, verr.Fields, "email")
	require.Contains(t, verr.Fields, "phone")
	require.Equal(t, "name is required", verr.Fields["name"])
	require.Empty(t, sender.requests, "invalid enquiries must not reach the backend")
}

func TestSubmitFailureIsLoud(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{err: &backend.StatusError{Method: "POST", URL: "/enquiries", StatusCode: 503}}
	svc := newService(t, sender, nil)

	_, err := svc.Submit(context.Background(), enquiry.Submission{Name: "A", Email: "a@example.com", Phone: "1"})
	require.ErrorIs(t, err, enquiry.ErrSubmitFailed)

	var statusErr *backend.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Len(t, sender.requests, 1)
}

func TestNewServiceRequiresSender(t *testing.T) {
	t.Parallel()

	_, err := enquiry.NewService(nil, nil)
	require.Error(t, err)
}
