package model

// SocialLink is a user-added link shown on the profile page.
type SocialLink struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	URL   string `json:"url"`
	Icon  string `json:"icon"`
}

// ProjectImage is a showcase image pinned to the profile.
type ProjectImage struct {
	ID    string `json:"id"`
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Profile is the user-editable identity and presentation data.
//
// AvatarURI and BannerURI reference uploaded images and may be empty, in
// which case the client renders initials over BannerColor. Links and
// Projects carry unique ids so individual items can be removed.
type Profile struct {
	Name        string         `json:"name"`
	Username    string         `json:"username"`
	Bio         string         `json:"bio"`
	AvatarURI   string         `json:"avatarUri"`
	BannerURI   string         `json:"bannerUri"`
	BannerColor string         `json:"bannerColor"`
	Links       []SocialLink   `json:"links"`
	Projects    []ProjectImage `json:"projects"`
}

// DefaultProfile is what a user sees before they have edited anything and
// what Load falls back to when both stores come up empty.
func DefaultProfile() Profile {
	return Profile{
		Name:        "Anonymous Dev",
		Username:    "@devuser",
		Bio:         "Developer passionate about technology",
		BannerColor: "#1a1040",
		Links:       []SocialLink{},
		Projects:    []ProjectImage{},
	}
}
