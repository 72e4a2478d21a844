// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

Open selects the driver (lib/pq for postgres, modernc.org/sqlite for
sqlite) from the configured database type. CreateSchema is idempotent and
runs at startup.

All SQL in this repository is written against the common dialect of both
engines: app-generated TEXT primary keys, $N placeholders in first-appearance
order, CURRENT_TIMESTAMP defaults.
*/
package db
