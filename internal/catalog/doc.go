package catalog

// Package catalog holds the installed mods reported by the game utility and
// arranges them into the two sidebar groups: playable mods nested under the
// mod they require, and everything whose dependency cannot be resolved.
