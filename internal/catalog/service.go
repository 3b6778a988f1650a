package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sparkle-learn/platform/internal/backend"
)

var (
	// ErrProgramNotFound is returned when no local or remote program matches the requested id or slug.
	ErrProgramNotFound = backend.ErrProgramNotFound
	// ErrFetchFailed is returned when the backend could not be queried for a program detail.
	ErrFetchFailed = backend.ErrFetchFailed
)

// Source is the subset of the backend client used by the catalog.
type Source interface {
	FetchCategories(ctx context.Context) []string
	ListProducts(ctx context.Context) ([]backend.ProductSummary, error)
	GetProduct(ctx context.Context, id string) (backend.ProductDetail, error)
}

// CategorySummary is a category label with the number of programs filed under it.
type CategorySummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Course identifies a backend product an enquiry can reference.
type Course struct {
	ID   string
	Name string
}

// Service merges curated local programs with the backend catalog. Safe for concurrent use.
type Service struct {
	source Source
	local  []Program
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time

	group     singleflight.Group
	mu        sync.Mutex
	summaries []backend.ProductSummary
	expires   time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger used for fail-soft warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCacheTTL memoizes the backend product list for ttl. Zero disables memoization.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a catalog Service over source and the curated local programs.
func NewService(source Source, local []Program, opts ...Option) (*Service, error) {
	if source == nil {
		return nil, errors.New("catalog: source is required")
	}
	normalized := make([]Program, len(local))
	for i, p := range local {
		normalized[i] = p.clone().normalized()
	}
	s := &Service{
		source: source,
		local:  normalized,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Programs returns the merged catalog. Backend failures degrade to the local list.
func (s *Service) Programs(ctx context.Context) []Program {
	summaries, err := s.products(ctx)
	if err != nil {
		s.logger.Warn("backend catalog unavailable, serving local programs", zap.Error(err))
		summaries = nil
	}
	remote := make([]Program, 0, len(summaries))
	for _, p := range summaries {
		remote = append(remote, AdaptSummary(p))
	}
	return Merge(remote, cloneAll(s.local))
}

// Featured returns the programs flagged for the home page, in catalog order.
func (s *Service) Featured(ctx context.Context) []Program {
	all := s.Programs(ctx)
	out := make([]Program, 0, len(all))
	for _, p := range all {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Program looks up a single program by id or slug. Local programs are served without a backend call.
func (s *Service) Program(ctx context.Context, idOrSlug string) (Program, error) {
	for _, p := range s.local {
		if p.ID == idOrSlug {
			return p.clone(), nil
		}
	}

	detail, err := backend.FetchProgramDetail(ctx, s.products, s.source.GetProduct, idOrSlug)
	if err != nil {
		return Program{}, err
	}
	return AdaptDetail(detail, s.logger), nil
}

// Categories returns backend categories followed by any category only local programs use.
func (s *Service) Categories(ctx context.Context) []string {
	return MergeCategories(s.source.FetchCategories(ctx), s.local)
}

// CategorySummaries returns every known category with its program count.
func (s *Service) CategorySummaries(ctx context.Context) []CategorySummary {
	programs := s.Programs(ctx)
	counts := make(map[string]int)
	for _, p := range programs {
		counts[p.Category]++
	}
	names := MergeCategories(s.Categories(ctx), programs)
	out := make([]CategorySummary, 0, len(names))
	for _, name := range names {
		out = append(out, CategorySummary{Name: name, Count: counts[name]})
	}
	return out
}

// ResolveCourse maps a program slug or backend id to the backend product an enquiry should reference.
func (s *Service) ResolveCourse(ctx context.Context, idOrSlug string) (Course, bool) {
	summaries, err := s.products(ctx)
	if err != nil {
		s.logger.Warn("resolve course: backend catalog unavailable", zap.String("course", idOrSlug), zap.Error(err))
		return Course{}, false
	}
	summary, ok := backend.FindProduct(summaries, idOrSlug)
	if !ok {
		return Course{}, false
	}
	return Course{ID: summary.ID, Name: summary.Name}, true
}

// Invalidate drops the memoized product list so the next read reloads it from the backend.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.summaries = nil
	s.expires = time.Time{}
	s.mu.Unlock()
}

func (s *Service) products(ctx context.Context) ([]backend.ProductSummary, error) {
	if s.ttl > 0 {
		s.mu.Lock()
		if s.summaries != nil && s.now().Before(s.expires) {
			cached := s.summaries
			s.mu.Unlock()
			return cached, nil
		}
		s.mu.Unlock()
	}

	ch := s.group.DoChan("products", func() (any, error) {
		summaries, err := s.source.ListProducts(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if s.ttl > 0 {
			s.mu.Lock()
			s.summaries = summaries
			s.expires = s.now().Add(s.ttl)
			s.mu.Unlock()
		}
		return summaries, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]backend.ProductSummary), nil
	}
}
