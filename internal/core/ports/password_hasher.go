package ports

// PasswordHasher produces and verifies one-way salted credential digests.
// Hash is salted, so two digests of the same plaintext differ; equality of
// digests must never be used for verification.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext produced digest. A malformed digest
	// verifies as false rather than erroring.
	Verify(plaintext, digest string) bool
}
