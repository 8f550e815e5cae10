// Package wikipedia wraps the two public Wikipedia endpoints the reference
// resolver needs: opensearch title suggestions and REST page summaries.
//
// The base URL may contain a "{lang}" placeholder that is replaced with the
// language edition for each request, so one client serves every supported
// language. Failures carry services.ErrLookupUnavailable; callers recover
// from them by falling back to a deterministic page URL.
package wikipedia
