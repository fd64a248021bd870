// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Draft Warden API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, engine, executor, cfg)

# Endpoints

Health:

	GET /health

Drafts:

	GET /drafts - Tracked drafts awaiting review

Ballots:

	POST /ballots                          - Open a ballot
	GET  /ballots/{author}/{name}          - Ballot status
	POST /ballots/{author}/{name}/votes    - Cast or change a vote
	POST /ballots/{author}/{name}/metadata - Supply categories/reason, apply decision

Manual decisions (skip the vote):

	POST /drafts/{author}/{name}/approve - Promote a draft
	POST /drafts/{author}/{name}/reject  - Reject a draft

# Authentication

Every route except GET /health and the root banner sits behind the
X-Sink-Key header, validated against the configured salt. The sink
process is the only expected caller; 401 means the key and salt do
not match.
*/
package router
