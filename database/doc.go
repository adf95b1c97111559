// Package database selects and connects a metadata backend.
//
// Two backends are supported: SQLite (including in-memory databases, handy
// for tests and local development) and PostgreSQL. Connect runs migrations
// and validates the resulting schema before handing back a repo, so a
// misconfigured table fails at startup rather than on first request.
package database
