// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Vote choices
const (
	ChoiceApprove = "approve"
	ChoiceReject  = "reject"
)

// Ballot results
const (
	ResultUnset    = ""
	ResultApproved = "approved"
	ResultRejected = "rejected"
	ResultTie      = "tie"
	ResultTimedOut = "timed_out"
)

// Review policy defaults
const (
	DefaultRequiredVotes  = 3
	DefaultBallotDuration = 24 * time.Hour
	MaxBallotDuration     = 32 * time.Hour
	MetadataWindow        = 5 * time.Minute
	UserCacheTTL          = 24 * time.Hour
)

// Request types

type OpenBallotRequest struct {
	Author        string  `json:"author"`
	Name          string  `json:"name"`
	DurationHours float64 `json:"duration_hours,omitempty"`
	RequiredVotes int     `json:"required_votes,omitempty"`
}

type CastVoteRequest struct {
	Participant string `json:"participant"`
	Choice      string `json:"choice"`
}

type MetadataRequest struct {
	Text string `json:"text"`
}

type ApproveRequest struct {
	Categories string `json:"categories"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

// Response types

type OpenBallotResponse struct {
	Title         string    `json:"title"`
	RequiredVotes int       `json:"required_votes"`
	ClosesAt      time.Time `json:"closes_at"`
}

type CastVoteResponse struct {
	ApproveCount int    `json:"approve_count"`
	RejectCount  int    `json:"reject_count"`
	Result       string `json:"result,omitempty"`
}

type BallotStatusResponse struct {
	Title         string    `json:"title"`
	ApproveCount  int       `json:"approve_count"`
	RejectCount   int       `json:"reject_count"`
	RequiredVotes int       `json:"required_votes"`
	ClosesAt      time.Time `json:"closes_at"`
	ClosesIn      string    `json:"closes_in"`
	Result        string    `json:"result,omitempty"`
}

type DraftListResponse struct {
	Drafts []Draft `json:"drafts"`
}

type DecisionResponse struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

// Draft is a wiki page in a user's staging area awaiting review.
// Title is the full wiki path (User:<author>/Drafts/<name>) and acts
// as the primary key everywhere.
type Draft struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// UserIdentity caches the wiki-side numeric id for a username.
// Entries older than UserCacheTTL are stale and get refreshed
// opportunistically; they are never deleted.
type UserIdentity struct {
	Username    string    `json:"username"`
	ExternalID  string    `json:"external_id"`
	LastUpdated time.Time `json:"last_updated"`
}
