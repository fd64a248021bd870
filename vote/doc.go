// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package vote runs time-bounded, threshold-terminated ballots over
tracked drafts.

# State Machine

Each ballot moves OPEN -> APPROVED | REJECTED | TIE | TIMED_OUT, all
terminal. Every cast and its resolution check run under the ballot's
single mutex, so concurrent casts serialize and exactly one of them can
resolve the ballot. The timeout timer races threshold resolution;
whichever fires second sees the terminal result and no-ops.

# Voting Rules

  - One active choice per participant; changing it moves the vote
    between buckets atomically, re-casting the same choice keeps it.
  - A bucket reaching RequiredVotes resolves the ballot to that outcome.
  - If one recomputation finds both buckets at threshold, counts break
    the tie; equal counts resolve TIE.
  - Casts on a resolved ballot are no-ops; counts are frozen.

# Post-Resolution

APPROVED and REJECTED wait up to models.MetadataWindow (5 minutes) for
SubmitMetadata to deliver categories or a rejection reason. No input
means no action: the draft stays tracked for a future ballot. The draft
is revalidated immediately before the Executor runs; a vanished draft
surfaces as *StaleStateError with no mutation attempted.

TIE and TIMED_OUT end without a metadata phase and leave the draft
tracked.

# Registry

The Engine owns the ballot registry, one live ballot per draft title,
enforced at Open. Ballots are ephemeral and abandoned on restart.
*/
package vote
