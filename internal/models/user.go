package models

// Preferences holds per-user notification settings.
type Preferences struct {
	AlertThreshold int  `gorm:"default:3" json:"alert_threshold"`
	EmailEnabled   bool `gorm:"default:true" json:"email_enabled"`
}

// User represents the user model in the database. Emails are stored
// lowercased and trimmed; the password hash never serializes to JSON.
type User struct {
	Base
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Preferences  Preferences `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`

	Portfolios []Portfolio `gorm:"foreignKey:UserID" json:"portfolios,omitempty"`
}
