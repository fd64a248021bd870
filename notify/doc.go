// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify delivers draft events to the chat workspace.

The Sink interface is the only thing collaborators see:

	NotifyNewDraft(ctx, NewDraft) error
	ArchiveThread(ctx, title) error

WebhookSink posts JSON events (thread_create / thread_reopen /
thread_archive) to a configured webhook and owns the registry of known
discussion threads keyed by draft title. Idempotence lives here: an open
thread is a no-op, an archived thread is reopened, an unknown title gets
a fresh thread with a uuid id. With no webhook URL configured the sink
runs in log-only mode, which is what tests and local development use.
*/
package notify
