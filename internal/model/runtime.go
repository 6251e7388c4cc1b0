package model

// RuntimeInfo records whether a compatible managed-code runtime was found
type RuntimeInfo struct {
	Present bool
	Path    string // empty when absent, or when the game runs natively
}
