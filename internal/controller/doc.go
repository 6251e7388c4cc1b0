package controller

// Package controller composes the runtime locator, mod catalog, download
// registry and process starter behind the operations the launcher window and
// its embedded content call.
