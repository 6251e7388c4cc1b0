package config

// Package config resolves launcher configuration from three layers: built-in
// defaults, the optional HCL launcher file, and Fyne preferences edited from
// the UI. It also builds the application logger.
