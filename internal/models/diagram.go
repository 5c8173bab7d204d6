// Package models defines the domain types for Dagaz.
package models

import "time"

// Theme is the rendering theme of a diagram.
type Theme string

// Supported themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Diagram represents one stored Mermaid document.
//
// Timestamps are milliseconds since the Unix epoch. UpdatedAt is bumped on
// every mutation and never on read; UpdatedAt >= CreatedAt always holds.
type Diagram struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Code          string   `json:"code"`
	Theme         Theme    `json:"theme"`
	CreatedAt     int64    `json:"createdAt"`
	UpdatedAt     int64    `json:"updatedAt"`
	CollectionIDs []string `json:"collectionIds,omitempty"`
}

// InCollection reports whether the diagram references the given collection.
func (d *Diagram) InCollection(collectionID string) bool {
	for _, id := range d.CollectionIDs {
		if id == collectionID {
			return true
		}
	}
	return false
}

// Collection groups diagrams. Membership is denormalized on both sides:
// Collection.DiagramIDs and Diagram.CollectionIDs are kept in lockstep by
// the collection store, which is the only component allowed to mutate either.
type Collection struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Color       string   `json:"color,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	DiagramIDs  []string `json:"diagramIds"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
}

// HasDiagram reports whether the collection references the given diagram.
func (c *Collection) HasDiagram(diagramID string) bool {
	for _, id := range c.DiagramIDs {
		if id == diagramID {
			return true
		}
	}
	return false
}

// NowMillis returns the current time in milliseconds since the Unix epoch,
// the timestamp resolution used throughout the vault.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
