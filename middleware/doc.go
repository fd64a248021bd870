// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

# Middleware

  - WithLogging: request/completion logging with duration
  - WithSinkAuth: X-Sink-Key validation for sink callbacks

# Helpers

  - JSONResponse: write a JSON response with status code
  - ErrorResponse: write a models.ErrorResponse
  - ParseJSONBody: decode a request body
  - GetClientIP: client IP from X-Forwarded-For / X-Real-IP / RemoteAddr
*/
package middleware
