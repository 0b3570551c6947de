package content

import "time"

// Entry is implemented by every record kind stored in a collection. Kinds
// embed Record, so pointers to them satisfy Entry through the promoted Base
// method.
type Entry interface {
	Base() *Record
}

// Record holds the fields shared by all content kinds.
type Record struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Content     string    `json:"content"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	// Language is the language the record was written in.
	Language string `json:"language,omitempty"`

	// Fallback marks a default-language record shown in another language's
	// view. Never persisted as true.
	Fallback         bool   `json:"fallbackContent,omitempty"`
	OriginalLanguage string `json:"originalLang,omitempty"`
}

// Base returns r itself.
func (r *Record) Base() *Record { return r }

// Author is the byline of a blog post.
type Author struct {
	Name   string `json:"name"`
	Title  string `json:"title,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Post is a blog article.
type Post struct {
	Record
	Author   Author `json:"author"`
	Image    string `json:"image,omitempty"`
	ImageAlt string `json:"imageAlt,omitempty"`
	Featured bool   `json:"featured"`
	// IsPublished hides the post from public listings when false. Unset
	// means published.
	IsPublished *bool `json:"isPublished,omitempty"`
	// ReadingTime is derived from Content, in minutes.
	ReadingTime int `json:"readingTime"`
}

// Published reports whether the post shows up in public listings.
func (p *Post) Published() bool {
	return p.IsPublished == nil || *p.IsPublished
}

// ServiceOffering describes a consulting or training service.
type ServiceOffering struct {
	Record
	Icon     string   `json:"icon,omitempty"`
	URL      string   `json:"url,omitempty"`
	Status   string   `json:"status,omitempty"`
	Features []string `json:"features,omitempty"`
}

// ShowcaseItem is a portfolio entry. Items with an Order sort before items
// without one.
type ShowcaseItem struct {
	Record
	Image    string   `json:"image"`
	Icon     string   `json:"icon,omitempty"`
	URL      string   `json:"url,omitempty"`
	Features []string `json:"features,omitempty"`
	Order    *int     `json:"order,omitempty"`
}
