// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package decision carries out the terminal outcome of a review.
//
// An approved draft is promoted into the main namespace and a
// rejected one is annotated in place. Either way the draft leaves the
// tracked set and its review thread is archived.
//
// # Approval steps
//
// Approval runs a fixed sequence against the wiki:
//
//  1. Delete every redirect pointing at the draft so the move target
//     is clean.
//  2. Append the approved categories to the page body.
//  3. Move the page to its bare name, suppressing the redirect a
//     move would normally leave behind.
//  4. Drop the local draft row.
//  5. Archive the review thread.
//
// # Failure handling
//
// Each step runs even when an earlier one failed, and every failure
// is collected and returned joined into a single error. There is no
// rollback: a half-applied decision is visible in the returned error
// and in the logs, and is expected to be finished by hand.
package decision
