package models

import "github.com/lumenworks/contentkit/pkg/constants"

// Product is the editable form of a product page.
type Product struct {
	ID                   string            `json:"id"`
	Title                string            `json:"title"`
	Tagline              string            `json:"tagline"`
	Description          string            `json:"description"`
	Category             string            `json:"category"`
	HeroImageURL         MediaRef          `json:"heroImageUrl"`
	WebsiteURL           string            `json:"websiteUrl"`
	DemoURL              string            `json:"demoUrl"`
	IsFeaturedOnHomePage bool              `json:"isFeaturedOnHomePage"`
	IsActive             bool              `json:"isActive"`
	Features             []Feature         `json:"features"`
	Testimonials         []Testimonial     `json:"testimonials"`
	Highlights           []string          `json:"highlights"`
	PlatformExamples     []PlatformExample `json:"platformExamples"`
	CTA                  CTA               `json:"cta"`
	Meta
}

func (p *Product) Kind() Kind  { return KindProduct }
func (p *Product) Key() string { return p.ID }

func (p *Product) Media() []*MediaRef {
	refs := []*MediaRef{&p.HeroImageURL}
	for i := range p.Features {
		refs = append(refs, &p.Features[i].Image)
	}
	for i := range p.PlatformExamples {
		refs = append(refs, &p.PlatformExamples[i].Image)
	}
	return refs
}

func (p *Product) Finalize() {
	for i := range p.Features {
		p.Features[i].Number = i + 1
	}
	for i := range p.PlatformExamples {
		p.PlatformExamples[i].Label = p.PlatformExamples[i].DisplayLabel(i)
	}
}

// NewProduct returns a blank product with its platform example placeholders.
func NewProduct() *Product {
	return &Product{
		Features:         []Feature{},
		Testimonials:     []Testimonial{},
		Highlights:       []string{},
		PlatformExamples: make([]PlatformExample, constants.PlatformExampleSlots),
	}
}

func productFromRecord(rec *Product) *Product {
	p := copyOf(rec)
	p.Features = orEmpty(p.Features)
	p.Testimonials = orEmpty(p.Testimonials)
	p.Highlights = orEmpty(p.Highlights)
	for len(p.PlatformExamples) < constants.PlatformExampleSlots {
		p.PlatformExamples = append(p.PlatformExamples, PlatformExample{})
	}
	return p
}

// Product fields
var (
	ProductID                 = Field("id", func(p *Product) *string { return &p.ID })
	ProductTitle              = Field("title", func(p *Product) *string { return &p.Title })
	ProductTagline            = Field("tagline", func(p *Product) *string { return &p.Tagline })
	ProductDescription        = Field("description", func(p *Product) *string { return &p.Description })
	ProductCategory           = Field("category", func(p *Product) *string { return &p.Category })
	ProductHeroImage          = Field("heroImageUrl", func(p *Product) *MediaRef { return &p.HeroImageURL })
	ProductWebsiteURL         = Field("websiteUrl", func(p *Product) *string { return &p.WebsiteURL })
	ProductDemoURL            = Field("demoUrl", func(p *Product) *string { return &p.DemoURL })
	ProductFeaturedOnHomePage = Field("isFeaturedOnHomePage", func(p *Product) *bool { return &p.IsFeaturedOnHomePage })
	ProductActive             = Field("isActive", func(p *Product) *bool { return &p.IsActive })
	ProductFeatures           = Field("features", func(p *Product) *[]Feature { return &p.Features })
	ProductTestimonials       = Field("testimonials", func(p *Product) *[]Testimonial { return &p.Testimonials })
	ProductHighlights         = Field("highlights", func(p *Product) *[]string { return &p.Highlights })
	ProductPlatformExamples   = Field("platformExamples", func(p *Product) *[]PlatformExample { return &p.PlatformExamples })
	ProductCTA                = Field("cta", func(p *Product) *CTA { return &p.CTA })
)
