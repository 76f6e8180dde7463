package models

// Project is the editable form of a case study. ID is assigned by the server
// on creation; the public page is addressed by Slug.
type Project struct {
	ID            string        `json:"id,omitempty"`
	Slug          string        `json:"slug"`
	Title         string        `json:"title"`
	Client        string        `json:"client"`
	Industry      string        `json:"industry"`
	Summary       string        `json:"summary"`
	ProjectURL    string        `json:"projectUrl"`
	IsFeatured    bool          `json:"isFeatured"`
	IsActive      bool          `json:"isActive"`
	Hero          Hero          `json:"hero"`
	Problem       string        `json:"problem"`
	ProblemImages []MediaRef    `json:"problemImages"`
	ProblemImage  MediaRef      `json:"problemImage"`
	Solution      string        `json:"solution"`
	Technologies  []string      `json:"technologies"`
	Highlights    []string      `json:"highlights"`
	Impact        Impact        `json:"impact"`
	Testimonials  []Testimonial `json:"testimonials"`
	CTA           CTA           `json:"cta"`
	Meta
}

func (p *Project) Kind() Kind  { return KindProject }
func (p *Project) Key() string { return p.ID }

func (p *Project) Media() []*MediaRef {
	refs := []*MediaRef{&p.Hero.Image}
	for i := range p.ProblemImages {
		refs = append(refs, &p.ProblemImages[i])
	}
	refs = append(refs, &p.ProblemImage)
	for i := range p.Impact.Rows {
		refs = append(refs, &p.Impact.Rows[i].Image)
	}
	return refs
}

func (p *Project) Finalize() {}

// PrimaryImage returns the image shown as the project's main visual: the first
// problem image when the list is non-empty, else the legacy singular problem
// image, which may be an empty slot.
func (p *Project) PrimaryImage() MediaRef {
	if len(p.ProblemImages) > 0 {
		return p.ProblemImages[0]
	}
	return p.ProblemImage
}

// NewProject returns a blank project.
func NewProject() *Project {
	return &Project{
		ProblemImages: []MediaRef{},
		Technologies:  []string{},
		Highlights:    []string{},
		Impact:        Impact{Rows: []ImpactRow{}},
		Testimonials:  []Testimonial{},
	}
}

func projectFromRecord(rec *Project) *Project {
	p := copyOf(rec)
	p.ProblemImages = orEmpty(p.ProblemImages)
	p.Technologies = orEmpty(p.Technologies)
	p.Highlights = orEmpty(p.Highlights)
	p.Testimonials = orEmpty(p.Testimonials)
	p.Impact.normalize()
	return p
}

// Project fields
var (
	ProjectSlug          = Field("slug", func(p *Project) *string { return &p.Slug })
	ProjectTitle         = Field("title", func(p *Project) *string { return &p.Title })
	ProjectClient        = Field("client", func(p *Project) *string { return &p.Client })
	ProjectIndustry      = Field("industry", func(p *Project) *string { return &p.Industry })
	ProjectSummary       = Field("summary", func(p *Project) *string { return &p.Summary })
	ProjectURL           = Field("projectUrl", func(p *Project) *string { return &p.ProjectURL })
	ProjectFeatured      = Field("isFeatured", func(p *Project) *bool { return &p.IsFeatured })
	ProjectActive        = Field("isActive", func(p *Project) *bool { return &p.IsActive })
	ProjectHero          = Field("hero", func(p *Project) *Hero { return &p.Hero })
	ProjectProblem       = Field("problem", func(p *Project) *string { return &p.Problem })
	ProjectProblemImages = Field("problemImages", func(p *Project) *[]MediaRef { return &p.ProblemImages })
	ProjectProblemImage  = Field("problemImage", func(p *Project) *MediaRef { return &p.ProblemImage })
	ProjectSolution      = Field("solution", func(p *Project) *string { return &p.Solution })
	ProjectTechnologies  = Field("technologies", func(p *Project) *[]string { return &p.Technologies })
	ProjectHighlights    = Field("highlights", func(p *Project) *[]string { return &p.Highlights })
	ProjectImpact        = Field("impact", func(p *Project) *Impact { return &p.Impact })
	ProjectTestimonials  = Field("testimonials", func(p *Project) *[]Testimonial { return &p.Testimonials })
	ProjectCTA           = Field("cta", func(p *Project) *CTA { return &p.CTA })
)
