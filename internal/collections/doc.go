// Package collections persists ordered collections of content records, one
// JSON document per collection and language.
//
// Every document lives at a path derived from the collection name and the
// language code: "<dir>/<name>.json" holds the default language and
// "<dir>/<name>-<lang>.json" holds a translation. A language without its own
// document reads the default one. Stores never cache between calls, so every
// Load reflects what is on disk (or in the database) at that moment.
package collections
