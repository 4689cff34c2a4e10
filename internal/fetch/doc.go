// Package fetch provides the HTTP client used by refetch's built-in
// fetch functions.
//
// It wraps net/http with connection pooling suited to long-lived polling
// loops, per-request context deadlines, and a 1MB response body limit.
//
// This package is internal to refetch. Library users construct fetch
// functions through the root package (JSONFetchFunc, BytesFetchFunc) or
// supply their own.
package fetch
