// Package kb serves the knowledge base: a directory tree of curriculum
// materials browsed, glob-searched and rendered from markdown to HTML.
// The tree lives outside the database and is treated as read-only.
package kb
