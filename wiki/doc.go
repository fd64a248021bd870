// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package wiki speaks the MediaWiki action API.

# Reads

Read calls retry transient failures with exponential backoff (fresh
policy per call, permanent on malformed responses and API errors):

  - ListCategoryMembers(ctx, category, limit)
  - PageContent(ctx, title)
  - ResolveUsers(ctx, usernames)
  - Redirects(ctx, title)

# Writes

Every write is independently authenticated. The client builds a fresh
cookie-jar session and performs the three-step handshake the API
requires - fetch a login token, POST the bot-password credentials,
fetch a csrf token - then issues the mutating POST:

  - EditPage(ctx, title, text, summary)
  - MovePage(ctx, from, to, reason, leaveRedirect)
  - DeletePage(ctx, title, reason)

No session or token is reused across writes.

# Errors

  - *RemoteFetchError: API unreachable or response malformed
  - *AuthError: login handshake rejected; the write is aborted and the
    error surfaces to the invoking caller, never retried silently
*/
package wiki
