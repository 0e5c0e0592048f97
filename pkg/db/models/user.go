package models

import "time"

// User represents the canonical identity entity. Usernames are unique and
// case-sensitive; there is no credential material.
type User struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Username  string    `gorm:"column:username;type:text;not null;uniqueIndex:users_username_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
