package model

// PasswordVerifier checks a supplied shared-link password against the stored
// one. The comparison semantics (plain equality, bcrypt, ...) belong to the
// external credential service.
type PasswordVerifier interface {
	Verify(password, stored string) (bool, error)
}
