// Package httputil provides the retry helper used by the trace client.
//
// [Retry] re-runs an operation only when it fails with a [RetryableError],
// doubling the delay after every attempt. The trace client wraps network
// failures and 5xx responses this way; malformed payloads and 4xx
// responses are returned at once.
//
//	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
//	    return fetch(ctx)
//	})
//
// The default policy makes a single attempt, so a failed fetch surfaces as
// a playback error and the user decides whether to replay.
package httputil
