// Package httputil provides the HTTP plumbing used to download fonts.
//
// # Overview
//
//   - [Client]: GET with status mapping, size limits and observability hooks
//   - [Cache]: file store of [Validator] entries (ETag, Last-Modified and
//     the content hash) with a TTL
//   - [Retry]: automatic retry with exponential backoff
//
// # Validators
//
// Font bodies are stored in the content cache (package cache). [Cache]
// only remembers how to revalidate them. While a validator is fresh the
// body is served without a request; once it expires the next download is
// a conditional GET, and a 304 response refreshes the validator without
// transferring the font again:
//
//	validators, _ := httputil.NewCache("", 24*time.Hour)
//	fonts := validators.Namespace("fonts:")
//
// # Retry
//
// [Retry] re-runs an operation while it fails with a [RetryableError].
// [Client] marks network failures, 429 and 5xx responses as retryable and
// records the server's Retry-After; 404 and other 4xx responses fail
// immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err = client.Get(ctx, url, nil)
//	    return err
//	})
//
// # Configuration
//
//   - Validator directory: ~/.cache/glyphorbit/http/
//   - Request timeout: 30 seconds
//   - Max retries: 3, starting at 1 second, no single wait over 30 seconds
//
// `glyphorbit cache clear` removes validators together with cached fonts.
package httputil
