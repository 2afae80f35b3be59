package model

// User is the profile returned by the backend identity endpoint.
type User struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatarUrl"`
}

// Session binds a verified user to the bearer credential that proved it.
type Session struct {
	User  User
	Token string
}
