// Package queue defines message payloads exchanged over the message broker.
package queue

// AttachmentOrphanedEvent is published when a show stops referencing an
// uploaded file, either because the image was replaced or the show was
// deleted.  Consumers remove the file.
type AttachmentOrphanedEvent struct {
	Path        string `json:"path"`
	DiscardedAt string `json:"discarded_at"`
}
