// Package markdown renders post bodies to HTML and imports Markdown files
// with front matter as blog posts.
package markdown
