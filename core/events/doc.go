// Package events defines the typed events the dialogue core emits while a
// session is running: user transcript updates, assistant response segments,
// playback progress, dialogue state transitions and the terminal service
// match that ends a session.
package events
