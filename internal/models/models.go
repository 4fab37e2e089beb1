package models

import "time"

// User represents a registered account. The password hash never leaves
// the server.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Photo represents one uploaded image. PublicID is the blob-store key the
// image was written under; Folder follows the <root>/<user-id>/<YYYY-MM>
// convention derived from PhotoDate. PhotoDate is user-assigned and distinct
// from CreatedAt.
type Photo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PublicID  string    `json:"public_id"`
	URL       string    `json:"url"`
	Folder    string    `json:"folder"`
	Caption   string    `json:"caption"`
	Tags      []string  `json:"tags"`
	PhotoDate time.Time `json:"photo_date"`
	CreatedAt time.Time `json:"created_at"`
}

// Album is a named, user-owned photo collection. Photos holds the expanded
// member photos in insertion order; an album never owns its photos, it only
// references them.
type Album struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Photos      []*Photo  `json:"photos"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserWithPhotoCount is the admin listing shape.
type UserWithPhotoCount struct {
	User
	PhotoCount int `json:"photo_count"`
}

// PhotoWithOwner is the admin listing shape: a photo annotated with its
// owner's name and email.
type PhotoWithOwner struct {
	Photo
	OwnerName  string `json:"owner_name"`
	OwnerEmail string `json:"owner_email"`
}
