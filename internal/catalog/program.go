package catalog

import "strings"

// Mode is the delivery format of a program.
type Mode string

const (
	ModeOnline  Mode = "Online"
	ModeOffline Mode = "Offline"
	ModeHybrid  Mode = "Hybrid"
)

// Modes lists every supported delivery mode in display order.
var Modes = []Mode{ModeOnline, ModeOffline, ModeHybrid}

// ParseMode coerces free-form backend values into a Mode. Unknown or empty values become ModeOnline.
func ParseMode(value string) Mode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "offline":
		return ModeOffline
	case "hybrid":
		return ModeHybrid
	default:
		return ModeOnline
	}
}

// Program is a marketed course as served to the presentation layer.
type Program struct {
	ID              string             `json:"id" yaml:"id"`
	Name            string             `json:"name" yaml:"name"`
	Category        string             `json:"category" yaml:"category"`
	Duration        string             `json:"duration" yaml:"duration"`
	Mode            Mode               `json:"mode" yaml:"mode"`
	Fees            string             `json:"fees" yaml:"fees"`
	Description     string             `json:"description" yaml:"description"`
	LongDescription string             `json:"longDescription,omitempty" yaml:"longDescription,omitempty"`
	Highlights      []string           `json:"highlights" yaml:"highlights"`
	Curriculum      []CurriculumModule `json:"curriculum" yaml:"curriculum"`
	Eligibility     []string           `json:"eligibility" yaml:"eligibility"`
	CareerOutcomes  []string           `json:"careerOutcomes" yaml:"careerOutcomes"`
	Image           string             `json:"image" yaml:"image"`
	Featured        bool               `json:"featured" yaml:"featured"`
	MetaTitle       string             `json:"metaTitle,omitempty" yaml:"metaTitle,omitempty"`
	MetaDescription string             `json:"metaDescription,omitempty" yaml:"metaDescription,omitempty"`

	// BackendID is the opaque product id used for enquiries. Empty for local-only programs.
	BackendID string `json:"-" yaml:"-"`
}

// CurriculumModule is one titled section of a program outline.
type CurriculumModule struct {
	Title  string   `json:"title" yaml:"title"`
	Topics []string `json:"topics" yaml:"topics"`
}

func (p Program) normalized() Program {
	p.Mode = ParseMode(string(p.Mode))
	p.Highlights = nonNilStrings(p.Highlights)
	p.Eligibility = nonNilStrings(p.Eligibility)
	p.CareerOutcomes = nonNilStrings(p.CareerOutcomes)
	if p.Curriculum == nil {
		p.Curriculum = []CurriculumModule{}
	}
	for i := range p.Curriculum {
		p.Curriculum[i].Topics = nonNilStrings(p.Curriculum[i].Topics)
	}
	if strings.TrimSpace(p.Image) == "" {
		p.Image = DefaultImage
	}
	return p
}

func (p Program) clone() Program {
	p.Highlights = append([]string{}, p.Highlights...)
	p.Eligibility = append([]string{}, p.Eligibility...)
	p.CareerOutcomes = append([]string{}, p.CareerOutcomes...)
	modules := make([]CurriculumModule, len(p.Curriculum))
	for i, m := range p.Curriculum {
		modules[i] = CurriculumModule{Title: m.Title, Topics: append([]string{}, m.Topics...)}
	}
	p.Curriculum = modules
	return p
}

func cloneAll(programs []Program) []Program {
	out := make([]Program, len(programs))
	for i, p := range programs {
		out[i] = p.clone()
	}
	return out
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
