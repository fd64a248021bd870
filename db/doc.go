// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables.

# Tables

  - draft: tracked drafts awaiting review (title PK, url, created_at)
  - wiki_user: cached user identities (username PK, external_id, last_updated)

Both tables are flat; there are no cross-table relationships. Ballots are
deliberately not persisted - an in-flight vote does not survive a process
restart and is treated as abandoned.

# Drivers

The same DDL and $1-style placeholders work against both supported
drivers: modernc.org/sqlite (default, embedded) and lib/pq (postgres).
*/
package db
