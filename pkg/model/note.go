package model

import (
	"slices"
	"time"
)

// Note is a user-authored text record. Category is an open set; unknown
// values are valid and simply render with the default color.
type Note struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags,omitempty"`
	Connections []string  `json:"connections,omitempty"` // Directed links to other note IDs
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasConnection reports whether the note links to id
func (n *Note) HasConnection(id string) bool {
	return slices.Contains(n.Connections, id)
}

// NotePatch carries a partial update. Nil fields are left unchanged.
type NotePatch struct {
	Title       *string
	Content     *string
	Category    *string
	Tags        *[]string
	Connections *[]string
}

// Apply merges the patch into n and refreshes UpdatedAt
func (p NotePatch) Apply(n *Note, now time.Time) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Category != nil {
		n.Category = *p.Category
	}
	if p.Tags != nil {
		n.Tags = slices.Clone(*p.Tags)
	}
	if p.Connections != nil {
		n.Connections = slices.Clone(*p.Connections)
	}
	n.UpdatedAt = now
}

// ConnectionsPatch builds a patch that only replaces the connection list
func ConnectionsPatch(ids []string) NotePatch {
	c := slices.Clone(ids)
	if c == nil {
		c = []string{}
	}
	return NotePatch{Connections: &c}
}
