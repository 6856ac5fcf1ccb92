// Package db embeds the SQL schema applied at startup.
package db

import _ "embed"

// Schema contains the DDL for all application tables. It is written to be
// idempotent so it can run on every boot.
//
//go:embed migrations/001_schema.sql
var Schema string
