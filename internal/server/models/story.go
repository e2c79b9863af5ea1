// Package models holds the server's persistent record types.
package models

// Story is the narrative unlocked at waypoint ID.
type Story struct {
	ID      int
	Title   string
	Content string
}

type Hint struct {
	StoryID int
	Content string
}
