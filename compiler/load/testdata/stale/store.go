package stale

// Lookup is hand-written code using the generated helper.
func Lookup(u *User) string { return userName(u) }
