package model

// User represents an account that may be a member of environments and the
// author of reports. Passwords are stored as opaque strings; see the login
// contract in the service layer.
type User struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:45;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:45;not null" json:"email"`
	Password string `gorm:"size:45;not null" json:"-"`

	// Associations
	Environments []*Environment `gorm:"many2many:user_environments;" json:"environments,omitempty"`
	Reports      []Report       `gorm:"foreignKey:UserID" json:"reports,omitempty"`
}

// UserConfig collects the fields needed to construct a user.
type UserConfig struct {
	Name     string
	Email    string
	Password string
}

// NewUser builds a user from a config value.
func NewUser(cfg UserConfig) *User {
	return &User{
		Name:     cfg.Name,
		Email:    cfg.Email,
		Password: cfg.Password,
	}
}
