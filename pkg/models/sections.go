package models

import (
	"fmt"
	"time"
)

// Meta carries the timestamps the server assigns to persisted documents.
type Meta struct {
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Stamp sets UpdatedAt to now, and CreatedAt too when it is unset.
func (m *Meta) Stamp(now time.Time) {
	if m.CreatedAt == nil {
		created := now
		m.CreatedAt = &created
	}
	m.UpdatedAt = &now
}

// Feature is one numbered feature of a product. Number is derived from the
// position in the list when the document is finalized.
type Feature struct {
	Number      int      `json:"number,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       MediaRef `json:"image"`
}

type Testimonial struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Role   string `json:"role"`
}

// PlatformExample is one of the fixed platform example blocks of a product.
type PlatformExample struct {
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Image       MediaRef `json:"image"`
}

// DefaultLabel returns the label of the platform example at index when the
// author leaves it blank.
func DefaultLabel(index int) string {
	return fmt.Sprintf("block-%d", index+1)
}

// DisplayLabel returns the label of the block at index, falling back to the
// positional default.
func (e PlatformExample) DisplayLabel(index int) string {
	if e.Label == "" {
		return DefaultLabel(index)
	}
	return e.Label
}

// Hero is the top section of a project page.
type Hero struct {
	Heading    string   `json:"heading"`
	Subheading string   `json:"subheading"`
	Image      MediaRef `json:"image"`
}

// CTA is the call-to-action section closing a page.
type CTA struct {
	Heading    string `json:"heading"`
	Body       string `json:"body"`
	ButtonText string `json:"buttonText"`
	ButtonLink string `json:"buttonLink"`
}

// Impact lists the outcomes of a project.
type Impact struct {
	Heading string      `json:"heading"`
	Rows    []ImpactRow `json:"rows"`
}

type ImpactRow struct {
	Title   string   `json:"title"`
	Bullets []Bullet `json:"bullets"`
	Image   MediaRef `json:"image"`
}

type Bullet struct {
	Text string `json:"text"`
}

// Sub-record fields
var (
	FeatureTitle       = Field("title", func(f *Feature) *string { return &f.Title })
	FeatureDescription = Field("description", func(f *Feature) *string { return &f.Description })
	FeatureImage       = Field("image", func(f *Feature) *MediaRef { return &f.Image })

	TestimonialQuote  = Field("quote", func(t *Testimonial) *string { return &t.Quote })
	TestimonialAuthor = Field("author", func(t *Testimonial) *string { return &t.Author })
	TestimonialRole   = Field("role", func(t *Testimonial) *string { return &t.Role })

	PlatformExampleLabel       = Field("label", func(e *PlatformExample) *string { return &e.Label })
	PlatformExampleDescription = Field("description", func(e *PlatformExample) *string { return &e.Description })
	PlatformExampleImage       = Field("image", func(e *PlatformExample) *MediaRef { return &e.Image })

	HeroHeading    = Field("heading", func(h *Hero) *string { return &h.Heading })
	HeroSubheading = Field("subheading", func(h *Hero) *string { return &h.Subheading })
	HeroImage      = Field("image", func(h *Hero) *MediaRef { return &h.Image })

	CTAHeading    = Field("heading", func(c *CTA) *string { return &c.Heading })
	CTABody       = Field("body", func(c *CTA) *string { return &c.Body })
	CTAButtonText = Field("buttonText", func(c *CTA) *string { return &c.ButtonText })
	CTAButtonLink = Field("buttonLink", func(c *CTA) *string { return &c.ButtonLink })

	ImpactHeading = Field("heading", func(i *Impact) *string { return &i.Heading })
	ImpactRows    = Field("rows", func(i *Impact) *[]ImpactRow { return &i.Rows })

	ImpactRowTitle   = Field("title", func(r *ImpactRow) *string { return &r.Title })
	ImpactRowBullets = Field("bullets", func(r *ImpactRow) *[]Bullet { return &r.Bullets })
	ImpactRowImage   = Field("image", func(r *ImpactRow) *MediaRef { return &r.Image })

	BulletText = Field("text", func(b *Bullet) *string { return &b.Text })
)

func orEmpty[E any](s []E) []E {
	if s == nil {
		return []E{}
	}
	return s
}

func (i *Impact) normalize() {
	i.Rows = orEmpty(i.Rows)
	for n := range i.Rows {
		i.Rows[n].Bullets = orEmpty(i.Rows[n].Bullets)
	}
}
