package models

// Profile is the public projection of a user attached to outbound
// messages. Only these fields ever leave the service.
type Profile struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Image     string `json:"image,omitempty"`
	Color     int    `json:"color"`
}
