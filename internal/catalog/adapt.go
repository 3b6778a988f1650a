package catalog

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sparkle-learn/platform/internal/backend"
	"github.com/sparkle-learn/platform/internal/format"
	"github.com/sparkle-learn/platform/internal/richtext"
)

const (
	// DefaultImage is used when a program has no thumbnail.
	DefaultImage = "https://images.unsplash.com/photo-1551288049-bebda4e38f71"
	// DefaultDuration is shown when the backend omits a duration.
	DefaultDuration = "TBD"
	// DefaultCategory groups programs the backend left uncategorised.
	DefaultCategory = backend.DefaultCategory
)

// metaDescriptionLimit is the number of characters search engines typically show.
const metaDescriptionLimit = 160

var defaultHighlights = []string{"Industry recognized"}

// AdaptSummary maps a product list entry onto a Program. List entries carry no outline data.
func AdaptSummary(p backend.ProductSummary) Program {
	return Program{
		ID:             remoteID(p),
		Name:           p.Name,
		Category:       firstNonEmpty(p.CategoryName, DefaultCategory),
		Duration:       firstNonEmpty(p.Duration, DefaultDuration),
		Mode:           ParseMode(p.ServiceType),
		Fees:           format.INR(p.Price),
		Description:    firstNonEmpty(p.ShortDescription, p.Name),
		Highlights:     []string{},
		Curriculum:     []CurriculumModule{},
		Eligibility:    []string{},
		CareerOutcomes: []string{},
		Image:          firstNonEmpty(p.ThumbnailURL, DefaultImage),
		BackendID:      p.ID,
	}
}

// AdaptDetail maps a product detail record onto a Program. Malformed JSON attributes are logged and
// replaced with empty sequences.
func AdaptDetail(d backend.ProductDetail, logger *zap.Logger) Program {
	if logger == nil {
		logger = zap.NewNop()
	}
	attrs := NewAttributes(d.Attributes)

	var serviceDuration, serviceType string
	if d.ServiceDetails != nil {
		serviceDuration = d.ServiceDetails.Duration
		serviceType = d.ServiceDetails.Type
	}
	attrDuration, _ := attrs.String(AttrDuration)
	attrMode, _ := attrs.String(AttrMode)

	var curriculum []CurriculumModule
	var eligibility, outcomes []string
	for _, res := range []struct {
		result ParseResult
		reset  func()
	}{
		{attrs.JSON(AttrCurriculum, &curriculum), func() { curriculum = nil }},
		{attrs.JSON(AttrEligibility, &eligibility), func() { eligibility = nil }},
		{attrs.JSON(AttrCareerOutcomes, &outcomes), func() { outcomes = nil }},
	} {
		if res.result.Status == ParseInvalid {
			logger.Warn("malformed program attribute",
				zap.String("product_id", d.ID),
				zap.String("attribute", res.result.Name),
				zap.Error(res.result.Err),
			)
			res.reset()
		}
	}

	highlights := d.Features
	if len(highlights) == 0 {
		highlights = defaultHighlights
	}

	long := ""
	if strings.TrimSpace(d.LongDescription) != "" {
		rendered, err := richtext.Render(d.LongDescription)
		if err != nil {
			logger.Warn("render long description", zap.String("product_id", d.ID), zap.Error(err))
		} else {
			long = rendered
		}
	}

	program := Program{
		ID:              remoteID(d.ProductSummary),
		Name:            d.Name,
		Category:        firstNonEmpty(d.CategoryName, DefaultCategory),
		Duration:        firstNonEmpty(serviceDuration, attrDuration, DefaultDuration),
		Mode:            ParseMode(firstNonEmpty(serviceType, attrMode)),
		Fees:            format.INR(d.Price),
		Description:     firstNonEmpty(d.ShortDescription, d.MetaDescription),
		LongDescription: long,
		Highlights:      append([]string{}, highlights...),
		Curriculum:      curriculum,
		Eligibility:     eligibility,
		CareerOutcomes:  outcomes,
		Image:           firstNonEmpty(d.ThumbnailURL, DefaultImage),
		MetaTitle:       d.MetaTitle,
		MetaDescription: firstNonEmpty(d.MetaDescription, metaExcerpt(richtext.PlainText(long))),
		BackendID:       d.ID,
	}
	return program.normalized()
}

// metaExcerpt shortens text to metaDescriptionLimit runes, cutting at the last word boundary.
func metaExcerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= metaDescriptionLimit {
		return text
	}
	cut := string(runes[:metaDescriptionLimit])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

func remoteID(p backend.ProductSummary) string {
	return firstNonEmpty(p.Slug, p.ID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
