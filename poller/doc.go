// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package poller keeps the draft store eventually consistent with the
wiki's review category.

# Cycle

One pass per interval (default 60s):

 1. Snapshot current store titles (old set).
 2. Fetch category members (single capped call). Any fetch error fails
    the cycle gracefully: logged, skipped, retried next interval.
 3. Validate each title against User:<author>/Drafts/<name>. Malformed
    titles are handed to the Repairer and never stored.
 4. Upsert valid pages; diff the store's titles against the old set.
 5. For each newly appeared title, refresh the author's identity cache
    (skipped under the 24h TTL) and emit one new-draft event to the sink.

Exactly-once notification falls out of the diff being store-driven: the
upsert lands before the notify, so a sink failure on one page neither
blocks the remaining pages nor causes a duplicate event next cycle.

# Repair

WikiRepairer moves a misplaced user-space page into the author's Drafts
subtree, leaving a redirect so the author's original link keeps working.
Pages outside user space are only logged.
*/
package poller
