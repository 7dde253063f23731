package model

import (
	"fmt"
	"strings"
)

// Environment represents a physical space that contains devices, is shared
// by users, and is the subject of usage reports.
type Environment struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`

	// Associations
	Devices []Device `gorm:"foreignKey:EnvironmentID" json:"devices,omitempty"`
	Users   []*User  `gorm:"many2many:user_environments;" json:"users,omitempty"`
	Reports []Report `gorm:"foreignKey:EnvironmentID" json:"reports,omitempty"`
}

// Complete reports whether the environment has both a name and a
// non-blank description.
func (e *Environment) Complete() bool {
	return strings.TrimSpace(e.Name) != "" && strings.TrimSpace(e.Description) != ""
}

// Summary renders a human-readable digest of the environment. Counts are
// supplied by the caller and sections with nothing to say are omitted.
func (e *Environment) Summary(devices, users, reports int64) string {
	var b strings.Builder
	b.WriteString("Environment: ")
	b.WriteString(e.Name)
	if strings.TrimSpace(e.Description) != "" {
		b.WriteString(" - ")
		b.WriteString(e.Description)
	}
	if devices > 0 {
		fmt.Fprintf(&b, " | Devices: %d", devices)
	}
	if users > 0 {
		fmt.Fprintf(&b, " | Users: %d", users)
	}
	if reports > 0 {
		fmt.Fprintf(&b, " | Reports: %d", reports)
	}
	return b.String()
}
