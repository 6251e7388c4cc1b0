package platform

// Package platform contains OS integration glue: support and mods directory
// resolution, path sanitizing for content-supplied paths, executable checks,
// and revealing folders in the system file manager.
