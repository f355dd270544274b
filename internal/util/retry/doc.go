// Package retry runs an operation repeatedly with exponential backoff.
//
// [WithExponentialBackoff] retries until the operation succeeds, the retry
// budget is spent, the context ends, or the operation returns an error
// marked with [Fatal]. It backs the post-deploy service health probe, where
// a freshly started container answers with connection errors for a while.
package retry
