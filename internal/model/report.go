package model

// Report records that a user generated a report about an environment. Both
// references are required and checked at creation time.
type Report struct {
	ID            int64 `gorm:"primaryKey" json:"id"`
	EnvironmentID int64 `gorm:"index;not null" json:"environmentId"`
	UserID        int64 `gorm:"index;not null" json:"userId"`

	// Associations
	Environment *Environment `gorm:"foreignKey:EnvironmentID" json:"-"`
	User        *User        `gorm:"foreignKey:UserID" json:"-"`
}
