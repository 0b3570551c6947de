package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudevolvers/go-contentstore/internal/collections"
	"github.com/cloudevolvers/go-contentstore/internal/content"
	"github.com/cloudevolvers/go-contentstore/internal/markdown"
	"github.com/cloudevolvers/go-contentstore/internal/settings"
)

type testStores struct {
	posts    *collections.MemoryStore[*content.Post]
	showcase *collections.MemoryStore[*content.ShowcaseItem]
}

func setupAPI(t *testing.T) (http.Handler, testStores) {
	t.Helper()

	postStore, err := collections.NewMemoryStore[*content.Post](collections.Layout{Name: "blogs", DefaultLanguage: "en"})
	if err != nil {
		t.Fatalf("post store: %v", err)
	}
	offeringStore, err := collections.NewMemoryStore[*content.ServiceOffering](collections.Layout{Name: "services", DefaultLanguage: "en"})
	if err != nil {
		t.Fatalf("services store: %v", err)
	}
	showcaseStore, err := collections.NewMemoryStore[*content.ShowcaseItem](collections.Layout{Name: "showcase", DefaultLanguage: "en"})
	if err != nil {
		t.Fatalf("showcase store: %v", err)
	}
	settingsStore, err := collections.NewMemoryStore[*settings.Homepage](collections.Layout{Name: "settings", DefaultLanguage: "en"})
	if err != nil {
		t.Fatalf("settings store: %v", err)
	}

	posts, err := content.NewService(content.PostKind(content.DefaultPostDefaults()), postStore)
	if err != nil {
		t.Fatalf("post service: %v", err)
	}
	offerings, err := content.NewService(content.ServiceKind(), offeringStore)
	if err != nil {
		t.Fatalf("offering service: %v", err)
	}
	showcase, err := content.NewService(content.ShowcaseKind(content.ShowcaseCategories), showcaseStore)
	if err != nil {
		t.Fatalf("showcase service: %v", err)
	}
	homepage, err := settings.NewService(settingsStore)
	if err != nil {
		t.Fatalf("settings service: %v", err)
	}

	api := NewAPI(
		WithLanguages("en", "en", "nl"),
		WithPostService(posts),
		WithOfferingService(offerings),
		WithShowcaseService(showcase),
		WithSettingsService(homepage),
		WithRenderer(markdown.NewRenderer(markdown.RenderOptions{})),
	)
	router, err := api.Router()
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return router, testStores{posts: postStore, showcase: showcaseStore}
}

func doJSONRequest(t *testing.T, handler http.Handler, method, path string, body any, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("%s %s: expected status %d got %d (%s)", method, path, wantStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

type postEnvelope struct {
	Success bool          `json:"success"`
	Post    *content.Post `json:"post"`
	HTML    string        `json:"html"`
}

type postListEnvelope struct {
	Success bool            `json:"success"`
	Posts   []*content.Post `json:"posts"`
	Total   int             `json:"total"`
}

func TestBlogLifecycle(t *testing.T) {
	router, _ := setupAPI(t)

	body := map[string]any{"title": "Hello World", "content": "# Hello\n\nFirst post."}
	var first postEnvelope
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodPost, "/api/blog", body, http.StatusCreated), &first)
	if !first.Success || first.Post == nil {
		t.Fatalf("expected created post, got %+v", first)
	}
	if first.Post.Slug != "hello-world" {
		t.Fatalf("expected slug hello-world got %q", first.Post.Slug)
	}
	if first.Post.Category != "General" || first.Post.Author.Name != "xEvolve Team" {
		t.Fatalf("expected post defaults, got %+v", first.Post)
	}

	var second postEnvelope
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodPost, "/api/blog", body, http.StatusCreated), &second)
	if second.Post.Slug != "hello-world-1" {
		t.Fatalf("expected slug hello-world-1 got %q", second.Post.Slug)
	}

	var list postListEnvelope
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodGet, "/api/blog", nil, http.StatusOK), &list)
	if list.Total != 2 || len(list.Posts) != 2 {
		t.Fatalf("expected 2 posts, got total=%d len=%d", list.Total, len(list.Posts))
	}

	var fetched postEnvelope
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodGet, "/api/blog/hello-world?render=html", nil, http.StatusOK), &fetched)
	if fetched.Post.ID != first.Post.ID {
		t.Fatalf("expected %s got %s", first.Post.ID, fetched.Post.ID)
	}
	if !strings.Contains(fetched.HTML, "<h1") {
		t.Fatalf("expected rendered html, got %q", fetched.HTML)
	}

	var byID postEnvelope
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodGet, "/api/blog/"+second.Post.ID, nil, http.StatusOK), &byID)
	if byID.Post.Slug != "hello-world-1" || byID.HTML != "" {
		t.Fatalf("expected lookup by id without html, got %+v", byID)
	}

	var updated postEnvelope
	patch := map[string]any{"excerpt": "Short intro"}
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodPatch, "/api/blog/"+first.Post.ID, patch, http.StatusOK), &updated)
	if updated.Post.Excerpt != "Short intro" || updated.Post.Title != "Hello World" {
		t.Fatalf("expected merged update, got %+v", updated.Post)
	}
	if !updated.Post.UpdatedAt.After(first.Post.UpdatedAt) {
		t.Fatalf("expected updatedAt to advance")
	}

	doJSONRequest(t, router, http.MethodDelete, "/api/blog/hello-world", nil, http.StatusOK)
	rec := doJSONRequest(t, router, http.MethodDelete, "/api/blog/hello-world", nil, http.StatusNotFound)
	var failure errorResponse
	decodeJSONBody(t, rec, &failure)
	if failure.Success || failure.Error != "not_found" {
		t.Fatalf("expected not_found error, got %+v", failure)
	}
	if failure.Message != `blog "hello-world" not found` {
		t.Fatalf("expected kind name in message, got %q", failure.Message)
	}
}

func TestUpdateAddressesRecordBySlugOrID(t *testing.T) {
	router, _ := setupAPI(t)

	var created postEnvelope
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodPost, "/api/blog", map[string]any{"title": "Hello World"}, http.StatusCreated), &created)

	var bySlug postEnvelope
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodPut, "/api/blog/hello-world", map[string]any{"title": "New"}, http.StatusOK), &bySlug)
	if bySlug.Post.ID != created.Post.ID || bySlug.Post.Title != "New" {
		t.Fatalf("expected update by slug, got %+v", bySlug.Post)
	}
	if bySlug.Post.Slug != "hello-world" {
		t.Fatalf("expected slug to be kept, got %q", bySlug.Post.Slug)
	}

	var byID postEnvelope
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodPatch, "/api/blog/"+created.Post.ID, map[string]any{"excerpt": "Intro"}, http.StatusOK), &byID)
	if byID.Post.Title != "New" || byID.Post.Excerpt != "Intro" {
		t.Fatalf("expected update by id, got %+v", byID.Post)
	}
}

func TestCreateRejectsInvalidRecord(t *testing.T) {
	router, _ := setupAPI(t)

	rec := doJSONRequest(t, router, http.MethodPost, "/api/blog", map[string]any{"title": "   ", "unknown": true}, http.StatusBadRequest)
	var failure errorResponse
	decodeJSONBody(t, rec, &failure)
	if failure.Error != "validation_failed" {
		t.Fatalf("expected validation_failed, got %+v", failure)
	}
	found := false
	for _, issue := range failure.Issues {
		if issue.Field == "title" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a title issue, got %+v", failure.Issues)
	}

	doJSONRequest(t, router, http.MethodPost, "/api/blog", nil, http.StatusBadRequest)
}

func TestUpdateMissingRecordReturnsNotFound(t *testing.T) {
	router, _ := setupAPI(t)
	doJSONRequest(t, router, http.MethodPut, "/api/blog/missing", map[string]any{"title": "x"}, http.StatusNotFound)
	doJSONRequest(t, router, http.MethodGet, "/api/blog/missing", nil, http.StatusNotFound)
}

func TestListFiltersAndIgnoresBadLimit(t *testing.T) {
	router, _ := setupAPI(t)
	for _, body := range []map[string]any{
		{"title": "Azure basics", "category": "Cloud", "content": "virtual machines"},
		{"title": "Teams tips", "category": "Microsoft 365", "content": "channels"},
		{"title": "Azure networking", "category": "Cloud", "content": "vnets"},
	} {
		doJSONRequest(t, router, http.MethodPost, "/api/blog", body, http.StatusCreated)
	}

	cases := []struct {
		path  string
		total int
		items int
	}{
		{"/api/blog?search=azure", 2, 2},
		{"/api/blog?category=cloud", 2, 2},
		{"/api/blog?category=all", 3, 3},
		{"/api/blog?limit=1", 3, 1},
		{"/api/blog?limit=abc", 3, 3},
		{"/api/blog?limit=-2", 3, 3},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			var list postListEnvelope
			decodeJSONBody(t, doJSONRequest(t, router, http.MethodGet, tc.path, nil, http.StatusOK), &list)
			if list.Total != tc.total || len(list.Posts) != tc.items {
				t.Fatalf("expected total=%d items=%d, got total=%d items=%d", tc.total, tc.items, list.Total, len(list.Posts))
			}
		})
	}

	var categories struct {
		Categories []string `json:"categories"`
	}
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodGet, "/api/blog/categories", nil, http.StatusOK), &categories)
	if len(categories.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %v", categories.Categories)
	}
}

func TestListComposesDefaultLanguageFallback(t *testing.T) {
	router, stores := setupAPI(t)
	doJSONRequest(t, router, http.MethodPost, "/api/blog", map[string]any{"title": "Alpha"}, http.StatusCreated)
	doJSONRequest(t, router, http.MethodPost, "/api/blog", map[string]any{"title": "Beta"}, http.StatusCreated)

	stores.posts.Put("nl", []byte(`[{"id":"nl-1","slug":"alpha-nl","title":"Alfa","content":"","publishedAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z","language":"nl","author":{"name":"Team"},"featured":false,"readingTime":1}]`))

	var list postListEnvelope
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodGet, "/api/blog?lang=nl", nil, http.StatusOK), &list)
	if list.Total != 2 {
		t.Fatalf("expected translated alpha plus fallback beta, got %d", list.Total)
	}
	for _, post := range list.Posts {
		switch post.Slug {
		case "alpha-nl":
			if post.Fallback {
				t.Fatalf("translated post must not be marked as fallback")
			}
		case "beta":
			if !post.Fallback || post.OriginalLanguage != "en" {
				t.Fatalf("expected beta as fallback from en, got %+v", post)
			}
		default:
			t.Fatalf("unexpected post %q", post.Slug)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/blog", nil)
	req.Header.Set("Accept-Language", "nl-NL,nl;q=0.9")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var negotiated postListEnvelope
	decodeJSONBody(t, rec, &negotiated)
	if negotiated.Total != 2 {
		t.Fatalf("expected Accept-Language to select nl, got %d posts", negotiated.Total)
	}
}

func TestShowcasePlaceholderWhenEmpty(t *testing.T) {
	router, _ := setupAPI(t)

	var list struct {
		Items       []map[string]any `json:"items"`
		Total       int              `json:"total"`
		Placeholder bool             `json:"placeholder"`
	}
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodGet, "/api/showcase?lang=nl", nil, http.StatusOK), &list)
	if !list.Placeholder || len(list.Items) != 1 || list.Total != 0 {
		t.Fatalf("expected a single placeholder, got %+v", list)
	}
	if list.Items[0]["title"] != "Binnenkort beschikbaar" {
		t.Fatalf("expected localized placeholder, got %v", list.Items[0]["title"])
	}

	item := map[string]any{"title": "File portal", "category": "file-management", "image": "/images/portal.png"}
	doJSONRequest(t, router, http.MethodPost, "/api/showcase", item, http.StatusCreated)

	list.Placeholder = false
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodGet, "/api/showcase", nil, http.StatusOK), &list)
	if list.Placeholder || list.Total != 1 {
		t.Fatalf("expected real items, got %+v", list)
	}

	bad := map[string]any{"title": "Nope", "category": "unknown", "image": "/x.png"}
	doJSONRequest(t, router, http.MethodPost, "/api/showcase", bad, http.StatusBadRequest)
}

func TestServicesRoutes(t *testing.T) {
	router, _ := setupAPI(t)
	body := map[string]any{"title": "Azure Training", "status": "active", "features": []string{"Labs"}}
	rec := doJSONRequest(t, router, http.MethodPost, "/api/services", body, http.StatusCreated)
	var created struct {
		Service *content.ServiceOffering `json:"service"`
	}
	decodeJSONBody(t, rec, &created)
	if created.Service == nil || created.Service.Slug != "azure-training" {
		t.Fatalf("expected created service, got %+v", created.Service)
	}

	var list struct {
		Services []*content.ServiceOffering `json:"services"`
		Total    int                        `json:"total"`
	}
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodGet, "/api/services", nil, http.StatusOK), &list)
	if list.Total != 1 || len(list.Services) != 1 {
		t.Fatalf("expected 1 service, got %+v", list)
	}
}

func TestHomepageSettingsRoutes(t *testing.T) {
	router, _ := setupAPI(t)

	var got struct {
		Success  bool              `json:"success"`
		Settings settings.Homepage `json:"settings"`
	}
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodGet, "/api/settings/homepage", nil, http.StatusOK), &got)
	if got.Settings.CTAButtonLink != "/training" {
		t.Fatalf("expected defaults, got %+v", got.Settings)
	}

	body := map[string]any{
		"heroTitle":     "Cloud skills",
		"heroSubtitle":  "Learn",
		"ctaButtonText": "Start",
		"ctaButtonLink": "https://example.com/start",
	}
	decodeJSONBody(t, doJSONRequest(t, router, http.MethodPut, "/api/settings/homepage", body, http.StatusOK), &got)
	if got.Settings.HeroTitle != "Cloud skills" {
		t.Fatalf("expected saved settings, got %+v", got.Settings)
	}

	body["ctaButtonLink"] = "javascript:alert(1)"
	rec := doJSONRequest(t, router, http.MethodPut, "/api/settings/homepage", body, http.StatusBadRequest)
	var failure errorResponse
	decodeJSONBody(t, rec, &failure)
	if failure.Error != "validation_failed" || len(failure.Issues) == 0 {
		t.Fatalf("expected field issues, got %+v", failure)
	}

	decodeJSONBody(t, doJSONRequest(t, router, http.MethodPost, "/api/settings/homepage/reset", nil, http.StatusOK), &got)
	if got.Settings.HeroTitle != settings.DefaultHomepage().HeroTitle {
		t.Fatalf("expected defaults after reset, got %q", got.Settings.HeroTitle)
	}
}

func TestStorageFailureHidesCause(t *testing.T) {
	router, stores := setupAPI(t)
	stores.posts.Put("en", []byte("{not json"))

	rec := doJSONRequest(t, router, http.MethodGet, "/api/blog", nil, http.StatusInternalServerError)
	var failure errorResponse
	decodeJSONBody(t, rec, &failure)
	if failure.Error != "internal_error" || failure.Message != internalErrorMessage {
		t.Fatalf("expected generic internal error, got %+v", failure)
	}
}

func TestHealthz(t *testing.T) {
	router, _ := setupAPI(t)
	doJSONRequest(t, router, http.MethodGet, "/healthz", nil, http.StatusOK)
}

func TestRegisterRequiresRouter(t *testing.T) {
	if err := NewAPI().Register(nil); err != ErrRouterRequired {
		t.Fatalf("expected ErrRouterRequired, got %v", err)
	}
}

func TestJoinPath(t *testing.T) {
	cases := []struct {
		base, suffix, want string
	}{
		{"/api", "", "/api"},
		{"api/", "blog", "/api/blog"},
		{"", "", "/"},
		{"/", "blog", "/blog"},
	}
	for _, tc := range cases {
		if got := joinPath(tc.base, tc.suffix); got != tc.want {
			t.Fatalf("joinPath(%q, %q) = %q, want %q", tc.base, tc.suffix, got, tc.want)
		}
	}
}
