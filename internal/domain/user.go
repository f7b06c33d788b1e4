package domain

import "time"

// PlatformUser is an end user of the video platform, as listed by the admin
// directory endpoints.
type PlatformUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Image     string    `json:"image,omitempty"`
	IsBanned  bool      `json:"isBanned"`
	PlanName  string    `json:"planName,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (u PlatformUser) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type Pagination struct {
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

type UserPage struct {
	Users      []PlatformUser `json:"users"`
	Pagination Pagination     `json:"pagination"`
}
