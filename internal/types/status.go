package types

// Status is a type for the lifecycle status of a resource in the database.
// Archived resources are excluded from resolution queries but keep their
// history; deleted resources are soft-deleted and never surfaced.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

func (s Status) String() string {
	return string(s)
}
