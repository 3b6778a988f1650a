package enquiry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sparkle-learn/platform/internal/backend"
	"github.com/sparkle-learn/platform/internal/catalog"
)

var (
	// ErrInvalidEnquiry is matched by ValidationError.
	ErrInvalidEnquiry = errors.New("enquiry: invalid submission")
	// ErrSubmitFailed wraps backend failures while sending an enquiry.
	ErrSubmitFailed = errors.New("enquiry: submission failed")
)

// Submission is a lead captured by the apply or contact forms.
type Submission struct {
	Name     string `json:"name" validate:"notblank,max=120"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"notblank,max=32"`
	CourseID string `json:"courseId,omitempty" validate:"max=128"`
	Program  string `json:"program,omitempty" validate:"max=128"`
	Message  string `json:"message,omitempty" validate:"max=4000"`
}

// Receipt confirms an accepted submission.
type Receipt struct {
	CourseID    string    `json:"courseId,omitempty"`
	CourseName  string    `json:"courseName,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// ValidationError lists the offending fields of a rejected submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("enquiry: invalid fields: %s", strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidEnquiry }

// Sender delivers enquiries to the backend.
type Sender interface {
	CreateEnquiry(ctx context.Context, req backend.EnquiryRequest) error
}

// CourseResolver maps a program reference to a backend course.
type CourseResolver interface {
	ResolveCourse(ctx context.Context, idOrSlug string) (catalog.Course, bool)
}

// Service validates and forwards enquiries.
type Service struct {
	sender     Sender
	courses    CourseResolver
	logger     *zap.Logger
	validate   *validator.Validate
	translator ut.Translator
	now        func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the receipt timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs an enquiry Service. courses may be nil, in which case course references are dropped.
func NewService(sender Sender, courses CourseResolver, opts ...Option) (*Service, error) {
	if sender == nil {
		return nil, errors.New("enquiry: sender is required")
	}
	v, translator := newValidator()
	s := &Service{
		sender:     sender,
		courses:    courses,
		logger:     zap.NewNop(),
		validate:   v,
		translator: translator,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Submit validates sub, resolves its course reference and sends it once.
func (s *Service) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	sub = sub.trimmed()
	if err := s.check(sub); err != nil {
		return Receipt{}, err
	}

	req := backend.EnquiryRequest{
		Name:    sub.Name,
		Email:   sub.Email,
		Phone:   sub.Phone,
		Message: sub.Message,
	}
	if ref := firstNonEmpty(sub.Program, sub.CourseID); ref != "" {
		if course, ok := s.resolve(ctx, ref); ok {
			req.CourseID = course.ID
			req.CourseName = course.Name
		} else {
			s.logger.Warn("enquiry course not found, sending without course", zap.String("course", ref))
		}
	}

	if err := s.sender.CreateEnquiry(ctx, req); err != nil {
		return Receipt{}, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	s.logger.Info("enquiry submitted", zap.String("course_id", req.CourseID))
	return Receipt{
		CourseID:    req.CourseID,
		CourseName:  req.CourseName,
		SubmittedAt: s.now().UTC(),
	}, nil
}

func (s *Service) resolve(ctx context.Context, ref string) (catalog.Course, bool) {
	if s.courses == nil {
		return catalog.Course{}, false
	}
	return s.courses.ResolveCourse(ctx, ref)
}

func (s *Service) check(sub Submission) error {
	err := s.validate.Struct(sub)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(s.translator)
	}
	return &ValidationError{Fields: fields}
}

func (sub Submission) trimmed() Submission {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Phone = strings.TrimSpace(sub.Phone)
	sub.CourseID = strings.TrimSpace(sub.CourseID)
	sub.Program = strings.TrimSpace(sub.Program)
	sub.Message = strings.TrimSpace(sub.Message)
	return sub
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
