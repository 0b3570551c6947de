// Package http exposes the content store over a chi router.
//
// Routes mount under /api by default:
//   - Blog posts: /blog, /blog/categories, /blog/{key}
//   - Service offerings: /services, /services/categories, /services/{key}
//   - Showcase items: /showcase, /showcase/categories, /showcase/{key}
//   - Homepage settings: /settings/homepage, /settings/homepage/reset
//
// Reads accept ?lang=, falling back to Accept-Language and then the default
// language. Collection listings also accept search, category, limit and all.
// GET /healthz is mounted at the router root.
//
// Host applications can call Register on their own chi router, or use
// Router for a standalone handler with request ids, panic recovery and
// request logging.
package http
