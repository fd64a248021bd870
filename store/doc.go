// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists tracked drafts and cached user identities.

# Contract

	s := store.New(db)
	s.AddDraft(title, url)     // upsert, refreshes timestamp
	s.RemoveDraft(title)       // delete-if-present
	s.GetDraft(title)          // *models.Draft, nil if absent
	s.GetAllDrafts()           // map[title]models.Draft
	s.AddUser(username, id)    // upsert with fresh timestamp
	s.GetUser(username)        // *models.UserIdentity, nil if absent
	s.UserCacheAge(username)   // age since last refresh

# Failure Semantics

Every operation wraps underlying I/O failure in *StorageError. The store
is treated as unavailable-but-retryable: the poller skips the cycle, the
vote engine refuses the ballot, nothing crashes. Connections are pooled
and short-lived per operation; sqlite's busy_timeout pragma bounds the
wait for the write lock before an operation fails.

# Identity Cache

wiki_user rows are written opportunistically during polling and never
deleted. Staleness is a caller concern: compare UserCacheAge against
models.UserCacheTTL before trusting the external id for rendering.
*/
package store
