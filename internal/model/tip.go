package model

// Tip is a short user-authored text record, owned by exactly one user and
// visible to all.
//
// UserID is a back-reference to the owning User.ID. It is not enforced by the
// store (there are no foreign keys in a JSON document), so a tip can outlive
// its owner — listings tolerate that by substituting "Unknown" for the
// username rather than failing.
type Tip struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	UserID string `json:"userId"`
}

// TipView is a Tip joined to its owner's public profile, as returned by the
// listing endpoint. Username is "Unknown" and ProfilePicture "" when the
// owning user cannot be found.
type TipView struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}
