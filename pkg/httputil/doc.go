// Package httputil fetches remote datasets.
//
// The papers source accepts an http(s) URL in place of a file path. Such
// datasets are downloaded by a [Client], which keeps the response bodies in
// a [Cache] on disk and revalidates them with the server's ETag or
// Last-Modified header once they are older than the cache TTL. Transient
// failures (network errors, 5xx and 429 responses) are retried with
// exponential backoff by [Retry]. When every attempt fails and a stale copy
// exists, the stale copy is served.
//
//	cache, _ := httputil.NewCache(dir, 24*time.Hour)
//	client := httputil.NewClient(httputil.ClientOptions{Cache: cache})
//	body, err := client.Get(ctx, "https://example.org/cs1-papers.csv")
package httputil
