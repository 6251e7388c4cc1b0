package model

// Package model defines domain data structures used across the launcher: the
// detected runtime, catalog mods and their sidebar descriptors, and download
// entries with their status enum. Structures are plain values so snapshots can
// be handed to the UI without sharing registry state.
