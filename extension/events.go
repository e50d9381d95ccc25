// events.go defines the event types for extension notifications.
//
// Separated from extension.go to isolate the event system. Events let
// extensions react to catalogue changes without touching core logic.
// They are fire-and-forget notifications delivered after the change has
// been committed; a handler cannot veto it.

package extension

// EventType identifies the kind of event.
type EventType string

const (
	EventIngest      EventType = "catalog:ingest"
	EventTagAdd      EventType = "tag:add"
	EventTagRemove   EventType = "tag:remove"
	EventTagDelete   EventType = "tag:delete"
	EventImageMove   EventType = "image:move"
	EventImageRevert EventType = "image:revert"
	EventImageRename EventType = "image:rename"
)

// Event is the base interface for all events.
type Event interface {
	EventType() EventType
	EventPath() string
}

// IngestEvent is fired after a directory tree has been ingested.
type IngestEvent struct {
	Root     string
	Images   int
	Replaced int
}

func (e IngestEvent) EventType() EventType { return EventIngest }
func (e IngestEvent) EventPath() string    { return e.Root }

// TagEvent is fired after a tag is added to or removed from an image.
type TagEvent struct {
	ImageID string
	Path    string
	Tag     string
	Added   bool // true=added, false=removed
}

func (e TagEvent) EventType() EventType {
	if e.Added {
		return EventTagAdd
	}
	return EventTagRemove
}
func (e TagEvent) EventPath() string { return e.Path }

// TagDeleteEvent is fired after a tag is deleted from the store. Images
// lists the IDs of the images that carried it.
type TagDeleteEvent struct {
	Tag    string
	Images []string
}

func (e TagDeleteEvent) EventType() EventType { return EventTagDelete }
func (e TagDeleteEvent) EventPath() string    { return "" }

// MoveEvent is fired after an image has been moved to another directory.
type MoveEvent struct {
	ImageID string
	From    string
	To      string
}

func (e MoveEvent) EventType() EventType { return EventImageMove }
func (e MoveEvent) EventPath() string    { return e.To }

// RevertEvent is fired after an image's tags were restored from its log.
type RevertEvent struct {
	ImageID string
	Path    string
	Index   int
	Tags    []string
}

func (e RevertEvent) EventType() EventType { return EventImageRevert }
func (e RevertEvent) EventPath() string    { return e.Path }

// RenameEvent is fired after a pending image file was renamed on disk.
type RenameEvent struct {
	ImageID string
	From    string
	To      string
}

func (e RenameEvent) EventType() EventType { return EventImageRename }
func (e RenameEvent) EventPath() string    { return e.To }

// EventHandler is implemented by extensions that want to receive events.
type EventHandler interface {
	HandleEvent(ctx Context, e Event) error
}
