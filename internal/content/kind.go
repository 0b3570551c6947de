package content

import (
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind describes how one record type is created, validated and ordered. The
// service is generic over T and delegates everything type specific here.
type Kind[T Entry] struct {
	// Name labels the collection in logs and errors.
	Name string
	New  func() T
	// Defaults fills unset fields of a record being created.
	Defaults func(T)
	// Derive recomputes derived fields after every create and update.
	Derive   func(T)
	Validate func(T) error
	// Less overrides the newest-first ordering of listings.
	Less func(a, b T) bool
	// Visible hides records from listings unless the query asks for them.
	Visible func(T) bool
}

func (k Kind[T]) valid() bool {
	return strings.TrimSpace(k.Name) != "" && k.New != nil
}

// Validate implements validation.Validatable.
func (a Author) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Length(0, 120)),
		validation.Field(&a.Title, validation.Length(0, 120)),
	)
}

// PostDefaults are the values given to new posts that leave them empty.
type PostDefaults struct {
	Category string
	Author   Author
	Image    string
}

// DefaultPostDefaults returns the stock post defaults.
func DefaultPostDefaults() PostDefaults {
	return PostDefaults{
		Category: "General",
		Author:   Author{Name: "xEvolve Team", Title: "Content Writer"},
		Image:    "/images/blog/default-blog.jpg",
	}
}

const wordsPerMinute = 200

// ReadingTime estimates minutes needed to read text, rounding up.
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

// PostKind describes blog posts.
func PostKind(defaults PostDefaults) Kind[*Post] {
	return Kind[*Post]{
		Name: "blog",
		New:  func() *Post { return &Post{} },
		Defaults: func(p *Post) {
			if strings.TrimSpace(p.Category) == "" {
				p.Category = defaults.Category
			}
			if strings.TrimSpace(p.Author.Name) == "" {
				p.Author = defaults.Author
			}
			if strings.TrimSpace(p.Image) == "" {
				p.Image = defaults.Image
			}
			if p.IsPublished == nil {
				published := true
				p.IsPublished = &published
			}
		},
		Derive: func(p *Post) {
			p.ReadingTime = ReadingTime(p.Content)
		},
		Validate: func(p *Post) error {
			return validation.ValidateStruct(p,
				titleRule(&p.Title),
				tagsRule(&p.Tags),
				validation.Field(&p.Author),
				validation.Field(&p.Image, validation.Length(0, 2048)),
			)
		},
		Visible: func(p *Post) bool { return p.Published() },
	}
}

// ServiceStatuses are the accepted values of ServiceOffering.Status.
var ServiceStatuses = []string{"active", "draft", "retired"}

// ServiceKind describes service offerings.
func ServiceKind() Kind[*ServiceOffering] {
	return Kind[*ServiceOffering]{
		Name: "services",
		New:  func() *ServiceOffering { return &ServiceOffering{} },
		Defaults: func(s *ServiceOffering) {
			if s.Status == "" {
				s.Status = ServiceStatuses[0]
			}
		},
		Validate: func(s *ServiceOffering) error {
			return validation.ValidateStruct(s,
				titleRule(&s.Title),
				tagsRule(&s.Tags),
				validation.Field(&s.Status, validation.In(toAny(ServiceStatuses)...)),
				validation.Field(&s.Features, validation.Each(validation.Required)),
			)
		},
		Visible: func(s *ServiceOffering) bool { return s.Status != "retired" },
	}
}

// ShowcaseCategories are the accepted showcase categories.
var ShowcaseCategories = []string{
	"platform",
	"file-management",
	"administration",
	"user-experience",
	"development",
}

// ShowcaseKind describes showcase items. An empty categories list accepts any
// category.
func ShowcaseKind(categories []string) Kind[*ShowcaseItem] {
	return Kind[*ShowcaseItem]{
		Name: "showcase",
		New:  func() *ShowcaseItem { return &ShowcaseItem{} },
		Validate: func(s *ShowcaseItem) error {
			categoryRules := []validation.Rule{}
			if len(categories) > 0 {
				categoryRules = append(categoryRules, validation.In(toAny(categories)...))
			}
			return validation.ValidateStruct(s,
				titleRule(&s.Title),
				tagsRule(&s.Tags),
				validation.Field(&s.Image, validation.Required.Error("image is required")),
				validation.Field(&s.Category, categoryRules...),
				validation.Field(&s.Order, validation.Min(0)),
			)
		},
		Less: func(a, b *ShowcaseItem) bool {
			switch {
			case a.Order != nil && b.Order != nil:
				return *a.Order < *b.Order
			case a.Order != nil:
				return true
			case b.Order != nil:
				return false
			}
			return a.PublishedAt.After(b.PublishedAt)
		},
	}
}

func titleRule(title *string) *validation.FieldRules {
	return validation.Field(title,
		validation.Required.Error("title is required"),
		validation.Length(1, 300),
	)
}

func tagsRule(tags *[]string) *validation.FieldRules {
	return validation.Field(tags, validation.Each(validation.Required, validation.Length(1, 64)))
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
