package settings

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/cloudevolvers/go-contentstore/internal/content"
)

// HomepageSlug is the slug of the homepage singleton.
const HomepageSlug = "homepage"

// DefaultRotationInterval is the hero rotation interval in milliseconds used
// when none is configured.
const DefaultRotationInterval = 5000

// Homepage holds the hero section settings of the landing page.
type Homepage struct {
	content.Record
	HeroImages           []string `json:"heroImages"`
	CurrentHeroIndex     int      `json:"currentHeroIndex"`
	HeroTitle            string   `json:"heroTitle"`
	HeroSubtitle         string   `json:"heroSubtitle"`
	CTAButtonText        string   `json:"ctaButtonText"`
	CTAButtonLink        string   `json:"ctaButtonLink"`
	HeroRotationEnabled  bool     `json:"heroRotationEnabled"`
	HeroRotationInterval int      `json:"heroRotationInterval"`
}

// DefaultHomepage returns the settings used until an operator saves their own.
func DefaultHomepage() Homepage {
	return Homepage{
		Record: content.Record{
			Slug:  HomepageSlug,
			Title: "Homepage",
		},
		HeroImages:           []string{"/cloudevolvers-logo/logo/vector/logo.svg"},
		HeroTitle:            `Expert <span class="text-emerald-400">Azure Training</span> & <span class="text-teal-400">Certification</span>`,
		HeroSubtitle:         "Master Azure and Microsoft 365 with hands-on training from Microsoft Certified Trainers. Build real-world skills that advance your career.",
		CTAButtonText:        "View Training Programs",
		CTAButtonLink:        "/training",
		HeroRotationEnabled:  true,
		HeroRotationInterval: DefaultRotationInterval,
	}
}

var linkPattern = regexp.MustCompile(`^(/|https?://|#)`)

// Validate implements validation.Validatable.
func (h Homepage) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.HeroTitle, validation.Required.Error("heroTitle is required")),
		validation.Field(&h.HeroSubtitle, validation.Required.Error("heroSubtitle is required")),
		validation.Field(&h.CTAButtonText, validation.Required.Error("ctaButtonText is required"), validation.Length(1, 80)),
		validation.Field(&h.CTAButtonLink,
			validation.Required.Error("ctaButtonLink is required"),
			validation.Match(linkPattern).Error("ctaButtonLink must be a path or an absolute URL"),
		),
		validation.Field(&h.HeroImages, validation.Each(validation.Required)),
		validation.Field(&h.HeroRotationInterval, validation.Min(0)),
	)
}

// normalize fills gaps the way stored settings are expected to look.
func (h *Homepage) normalize(defaults Homepage) {
	if len(h.HeroImages) == 0 {
		h.HeroImages = append([]string(nil), defaults.HeroImages...)
	}
	if h.HeroRotationInterval <= 0 {
		h.HeroRotationInterval = DefaultRotationInterval
	}
	if h.CurrentHeroIndex < 0 || h.CurrentHeroIndex >= len(h.HeroImages) {
		h.CurrentHeroIndex = 0
	}
}

// fillFrom copies defaults into fields left empty by a stored record.
func (h *Homepage) fillFrom(defaults Homepage) {
	if h.HeroTitle == "" {
		h.HeroTitle = defaults.HeroTitle
	}
	if h.HeroSubtitle == "" {
		h.HeroSubtitle = defaults.HeroSubtitle
	}
	if h.CTAButtonText == "" {
		h.CTAButtonText = defaults.CTAButtonText
	}
	if h.CTAButtonLink == "" {
		h.CTAButtonLink = defaults.CTAButtonLink
	}
	h.normalize(defaults)
}
