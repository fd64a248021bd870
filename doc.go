// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Draft Warden server.

Draft Warden is a wiki moderation bot. It watches a review category
for user-space drafts, surfaces each new draft to a chat workspace
for discussion, runs approve/reject ballots among moderators, and
carries out the decision on the wiki (promoting the page into
mainspace or annotating the rejection).

# Starting the Server

The server reads environment variables, optionally from a .env file:

	WIKI_URL=https://wiki.example.org go run .

Or with flags:

	go run . -p 8713 -wiki "https://wiki.example.org"

# Configuration

Required settings:

  - WIKI_URL (-wiki): Base wiki URL
  - WIKI_BOT_USERNAME (-wiki-user): Bot account username
  - WIKI_BOT_PASSWORD (-wiki-pass): Bot account password
  - SINK_KEY_SALT (-sink-salt): Secret for sink callback key HMAC

Optional settings:

  - PORT (-p): Server port (default: 8713)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string or sqlite path (default: drafts.db)
  - REVIEW_CATEGORY (-category): Category to watch (default: Drafts awaiting review)
  - POLL_INTERVAL_SECONDS (-interval): Poll cadence (default: 60)
  - SINK_WEBHOOK_URL (-sink): Chat webhook; without it, notifications only log

# Architecture

The server runs a background poller next to an HTTP API:

  - poller: Category polling, draft discovery, misplaced-page repair
  - vote: In-memory ballot engine (thresholds, timeouts, metadata window)
  - decision: Applies approvals and rejections to the wiki
  - wiki: MediaWiki API client (reads with retry, writes with login handshake)
  - notify: Idempotent per-draft discussion threads in the chat workspace
  - store: Drafts and the user identity cache on database/sql
  - handlers: HTTP request handlers (drafts, ballots, decisions)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Logging, sink-key auth, JSON helpers
  - models: Request/response and domain types
  - auth: Sink callback key generation and validation
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
