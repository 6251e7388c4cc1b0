package download

// Package download implements the keyed download registry and the fetch
// bridge used by embedded content. It owns transfer goroutines, enforces the
// one-active-download-per-key rule, bounds parallel transfers, and reports
// every terminal state and fetch result exactly once through a bridge.
