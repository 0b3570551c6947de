package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cloudevolvers/go-contentstore/internal/content"
	"github.com/cloudevolvers/go-contentstore/internal/locale"
)

// collectionRoutes serves one record kind. plural and singular name the
// response keys.
type collectionRoutes[T content.Entry] struct {
	api      *API
	service  *content.Service[T]
	plural   string
	singular string
	// decorate adds fields next to a single record in a read response.
	decorate func(r *http.Request, record T) (map[string]any, error)
	// placeholder stands in for an empty, unfiltered listing.
	placeholder func(language string) map[string]any
}

func (c *collectionRoutes[T]) mount(r chi.Router) {
	r.Get("/", c.handleList)
	r.Post("/", c.handleCreate)
	r.Get("/categories", c.handleCategories)
	r.Get("/{key}", c.handleGet)
	r.Patch("/{key}", c.handleUpdate)
	r.Put("/{key}", c.handleUpdate)
	r.Delete("/{key}", c.handleDelete)
}

func (c *collectionRoutes[T]) language(r *http.Request) string {
	return locale.FromRequest(r, c.api.defaultLanguage, c.api.languages...)
}

func (c *collectionRoutes[T]) handleList(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	query := content.ListQuery{
		Search:        values.Get("search"),
		Category:      values.Get("category"),
		Limit:         parseLimit(values.Get("limit")),
		IncludeHidden: parseBoolQuery(values.Get("all"), false),
	}
	language := c.language(r)
	result, err := c.service.List(r.Context(), language, query)
	if err != nil {
		c.api.writeError(w, r, err)
		return
	}

	if result.Total == 0 && c.placeholder != nil && unfiltered(query) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			c.plural:      []map[string]any{c.placeholder(language)},
			"total":       0,
			"placeholder": true,
		})
		return
	}

	items := result.Items
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		c.plural:  items,
		"total":   result.Total,
	})
}

func (c *collectionRoutes[T]) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.service.Categories(r.Context(), c.language(r))
	if err != nil {
		c.api.writeError(w, r, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"categories": categories,
	})
}

func (c *collectionRoutes[T]) handleGet(w http.ResponseWriter, r *http.Request) {
	record, err := c.service.Find(r.Context(), c.language(r), chi.URLParam(r, "key"))
	if err != nil {
		c.api.writeError(w, r, err)
		return
	}
	payload := map[string]any{
		"success":  true,
		c.singular: record,
	}
	if c.decorate != nil {
		extra, err := c.decorate(r, record)
		if err != nil {
			c.api.writeError(w, r, err)
			return
		}
		for key, value := range extra {
			payload[key] = value
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (c *collectionRoutes[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	input := c.service.Kind().New()
	if err := decodeJSON(r, input); err != nil {
		writeJSON(w, http.StatusBadRequest, badRequest("invalid JSON payload"))
		return
	}
	created, err := c.service.Create(r.Context(), input)
	if err != nil {
		c.api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		c.singular: created,
	})
}

func (c *collectionRoutes[T]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch content.Patch
	if err := decodeJSON(r, &patch); err != nil {
		writeJSON(w, http.StatusBadRequest, badRequest("invalid JSON payload"))
		return
	}
	updated, err := c.service.UpdateByKey(r.Context(), chi.URLParam(r, "key"), patch)
	if err != nil {
		c.api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		c.singular: updated,
	})
}

func (c *collectionRoutes[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	deleted, err := c.service.Delete(r.Context(), key)
	if err != nil {
		c.api.writeError(w, r, err)
		return
	}
	if !deleted {
		c.api.writeError(w, r, &content.NotFoundError{Resource: c.service.Kind().Name, Key: key})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func unfiltered(query content.ListQuery) bool {
	category := strings.TrimSpace(query.Category)
	return strings.TrimSpace(query.Search) == "" &&
		(category == "" || strings.EqualFold(category, content.AllCategories))
}

// renderPost adds the HTML rendering of the post body for ?render=html.
func (api *API) renderPost(r *http.Request, post *content.Post) (map[string]any, error) {
	if api.renderer == nil || !strings.EqualFold(r.URL.Query().Get("render"), "html") {
		return nil, nil
	}
	html, err := api.renderer.Render([]byte(post.Content))
	if err != nil {
		return nil, err
	}
	return map[string]any{"html": string(html)}, nil
}

func showcasePlaceholder(language string) map[string]any {
	now := time.Now().UTC()
	item := map[string]any{
		"id":          "coming-soon",
		"slug":        "coming-soon",
		"title":       "Coming Soon",
		"excerpt":     "Exciting showcase projects are coming soon. Check back later to see our featured work and client solutions.",
		"image":       "/images/placeholder.jpg",
		"category":    "announcement",
		"features":    []string{"Showcase projects in development", "Client success stories", "Featured solutions"},
		"language":    language,
		"publishedAt": now,
		"updatedAt":   now,
	}
	if locale.Base(language) == "nl" {
		item["title"] = "Binnenkort beschikbaar"
		item["excerpt"] = "Spannende showcase projecten komen binnenkort. Kom later terug om onze uitgelichte werkzaamheden en klantoplossingen te bekijken."
		item["category"] = "aankondiging"
		item["features"] = []string{"Showcase projecten in ontwikkeling", "Klantsuccesverhalen", "Uitgelichte oplossingen"}
	}
	return item
}
