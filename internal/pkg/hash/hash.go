package hash

// Hash turns a plaintext into a storable digest and checks candidates against it.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}
