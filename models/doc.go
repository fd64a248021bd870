// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types shared across
the service.

# Request Types

Types for parsing incoming JSON from the chat-workspace sink:

  - OpenBallotRequest: author, name, duration_hours, required_votes
  - CastVoteRequest: participant, choice
  - MetadataRequest: text (categories or rejection reason)
  - ApproveRequest: categories
  - RejectRequest: reason

# Response Types

  - OpenBallotResponse: title, required_votes, closes_at
  - CastVoteResponse: approve_count, reject_count, result
  - BallotStatusResponse: counts, deadline, result
  - DraftListResponse: drafts
  - ErrorResponse: error, message

# Domain Types

  - Draft: tracked wiki draft (title is the primary key)
  - UserIdentity: cached username -> external id mapping

# Constants

Vote choices:

	ChoiceApprove = "approve"
	ChoiceReject  = "reject"

Ballot results:

	ResultApproved  = "approved"
	ResultRejected  = "rejected"
	ResultTie       = "tie"
	ResultTimedOut  = "timed_out"

Review policy:

	DefaultRequiredVotes  = 3
	DefaultBallotDuration = 24h
	MaxBallotDuration     = 32h
	MetadataWindow        = 5m
	UserCacheTTL          = 24h
*/
package models
