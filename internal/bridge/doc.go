package bridge

// Package bridge carries typed events from native code to embedded content.
// Every fetch request is answered exactly once, and every download reports its
// terminal state exactly once, through a Bridge implementation supplied at
// construction time.
