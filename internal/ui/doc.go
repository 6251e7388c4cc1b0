package ui

// Package ui contains the Fyne-based launcher window: the mod tree sidebar,
// the details pane with the play button, the renderer choice and the download
// list. Bridge events and controller notifications are marshalled onto the
// Fyne goroutine with fyne.Do.
