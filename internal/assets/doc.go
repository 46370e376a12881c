// Package assets provides the SPA shell and static files.
//
// A Source hides where files live: the embedded default bundle, a local
// directory, or an S3 bucket. Handler serves static files from a Source
// under a URL prefix, and Shell renders index.html with the resolved route
// injected.
package assets
