package api

// User identifies an owner or a reader of a resource.  The catalog
// records owners by email only, so UserID and Email carry the same
// value.
type User struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
