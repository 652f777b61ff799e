package ports

// PasswordHasher abstracts the one-way password transform so the service
// layer stays independent of the algorithm. Hash output self-describes its
// algorithm, cost and salt; Verify needs no external state.
type PasswordHasher interface {
	// Hash returns a salted hash of password. Two calls with the same input
	// produce different outputs.
	Hash(password string) (string, error)

	// Verify reports whether password matches hash.
	Verify(password, hash string) bool
}
