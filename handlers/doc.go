// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Draft Warden API.

# Handler Types

Each handler is a struct holding its dependencies:

  - DraftHandler: Tracked-draft listing
  - BallotHandler: Ballot lifecycle (open, status, cast, metadata)
  - DecisionHandler: Manual approve/reject without a ballot

Handlers are created via constructor functions:

	ballotHandler := handlers.NewBallotHandler(engine)

# Review Flow

The normal path runs through a ballot:

	POST /ballots                            → OpenBallot
	GET  /ballots/{author}/{name}            → GetBallot
	POST /ballots/{author}/{name}/votes      → CastVote
	POST /ballots/{author}/{name}/metadata   → SubmitMetadata

Once a ballot resolves approved or rejected, SubmitMetadata supplies
the categories (approval) or the reason (rejection) and blocks until
the decision has been applied to the wiki. A 502 means the wiki work
failed partway; the logs show which steps went through.

# Manual Overrides

Moderators can decide a draft directly, skipping the vote:

	POST /drafts/{author}/{name}/approve → Approve
	POST /drafts/{author}/{name}/reject  → Reject

# Status Codes

	404 draft not tracked, or no ballot open
	409 duplicate ballot, unresolved ballot, or closed metadata window
	410 draft vanished between resolution and execution
	502 wiki mutation failed

All routes except GET /health sit behind the X-Sink-Key check.
*/
package handlers
