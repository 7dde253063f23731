package model

// UserEnvironment is the join row backing the user/environment many-to-many
// association. Membership is only ever recorded here, so both sides of the
// association are derived by query and cannot diverge.
type UserEnvironment struct {
	UserID        int64 `gorm:"primaryKey"`
	EnvironmentID int64 `gorm:"primaryKey"`
}

// TableName matches the join table created by the many2many tags on User
// and Environment.
func (UserEnvironment) TableName() string { return "user_environments" }
