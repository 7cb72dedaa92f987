package models

// ChannelView is a channel with its membership resolved to public
// profiles, in the stored member order. Messages are kept as ids only;
// this service never loads a channel's history.
type ChannelView struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Admin   Profile   `json:"admin"`
	Members []Profile `json:"members"`
}
