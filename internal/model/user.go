// Package model defines the data structures used throughout the application.
package model

import "time"

// Identity is what the identity provider hands us after a successful sign-in.
//
// Only these four fields are guaranteed to be present; DisplayName and Email
// can be empty if the user has hidden them at the provider. UID is the
// provider's stable subject identifier and is the key for everything else
// in the system.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"` // may be empty — bootstrap falls back to "Dev"
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}

// UserData is the full per-user document held by the remote store.
//
// It is the remote-authoritative superset: the union of the streak record,
// the learning log, the stats counters, and every profile field, keyed by
// uid. The local store caches the whole document under the user-cache key so
// it stays readable offline. CreatedAt/UpdatedAt are server-assigned and
// only populated on documents read back from the remote store.
type UserData struct {
	UID         string          `json:"uid"`
	Name        string          `json:"name"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	PhotoURL    string          `json:"photoURL"`
	Bio         string          `json:"bio"`
	AvatarURI   string          `json:"avatarUri"`
	BannerURI   string          `json:"bannerUri"`
	BannerColor string          `json:"bannerColor"`
	Links       []SocialLink    `json:"links"`
	Projects    []ProjectImage  `json:"projects"`
	Streak      int             `json:"streak"`
	LastDate    string          `json:"lastStreakDate"` // YYYY-MM-DD, "" = never recorded
	Learnings   []LearningEntry `json:"learnings"`
	Hours       float64         `json:"totalHours"`
	Skills      int             `json:"skills"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// StreakRecord returns the streak portion of the document in the shape the
// streak engine works with.
func (u *UserData) StreakRecord() StreakRecord {
	return StreakRecord{Count: u.Streak, LastDate: u.LastDate}
}

// Profile returns the user-editable presentation fields of the document.
func (u *UserData) Profile() Profile {
	return Profile{
		Name:        u.Name,
		Username:    u.Username,
		Bio:         u.Bio,
		AvatarURI:   u.AvatarURI,
		BannerURI:   u.BannerURI,
		BannerColor: u.BannerColor,
		Links:       u.Links,
		Projects:    u.Projects,
	}
}

// Stats returns the counters shown on the home screen. Learnings is derived
// from the log length, never read from a stored field.
func (u *UserData) Stats() Stats {
	return Stats{
		TotalHours: u.Hours,
		Skills:     u.Skills,
		Learnings:  len(u.Learnings),
	}
}
