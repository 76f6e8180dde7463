// Package models defines the editable content documents of the marketing site.
//
// Three document kinds are authored through the admin screens:
//
//   - [Product]: the richest entity, with a caller-chosen identifier that cannot change
//     after creation, repeatable features, testimonials and highlights, and exactly
//     [github.com/lumenworks/contentkit/pkg/constants.PlatformExampleSlots] platform example blocks.
//   - [Project]: a case study with a server-assigned identifier, addressed by slug, with a
//     hero section, problem images and an impact section made of rows of bullets.
//   - [BlogPost]: a flat document with a single image.
//
// # Media References
//
// Every image slot is a [MediaRef]. A slot is empty, holds the stored path of previously
// uploaded media, or holds a pending local [File] chosen by the author. A pending slot
// keeps the previously stored path until the upload succeeds, so a failed upload never
// loses the prior image. Encoding a pending slot to JSON fails with
// [github.com/lumenworks/contentkit/pkg/constants.ErrPendingMedia]; only resolved
// documents can reach the wire.
//
// # Field Access
//
// Fields are addressed through [Lens] values instead of string keys. Each document kind
// exports the closed set of lenses for its fields (ProductTitle, ProjectHero, ...), and
// lenses compose with [Then], [Item] and [At] to reach nested sections and list elements:
//
//	title := models.At(models.ProductFeatures, 2, models.FeatureTitle)
//	image := models.Then(models.ProjectHero, models.HeroImage)
//
// A lens that does not resolve for a given document, such as an out-of-range list index,
// returns nil from [Lens.Ref].
//
// # Derived Values
//
// Values that depend on position are never stored by the editing operations. Feature
// numbers and default platform example labels are computed by [Document.Finalize], which
// the media resolution step runs on every resolved copy.
package models
