package vault

// Secret is an encrypted credential value. It can only be built by encrypting
// (NewSecret) or from stored ciphertext, and reading it back yields an
// explicit DecryptResult instead of a silently blank string.
type Secret struct {
	ciphertext []byte
}

// DecryptResult is the outcome of revealing a Secret
type DecryptResult struct {
	Value string
	Err   error
}

// OK reports whether decryption succeeded
func (r DecryptResult) OK() bool {
	return r.Err == nil
}

// NewSecret encrypts plaintext with the sealer
func NewSecret(s *Sealer, plaintext string) (Secret, error) {
	ct, err := s.Seal(plaintext)
	if err != nil {
		return Secret{}, err
	}
	return Secret{ciphertext: ct}, nil
}

// SecretFromCiphertext wraps a stored column value
func SecretFromCiphertext(ciphertext []byte) Secret {
	return Secret{ciphertext: ciphertext}
}

// Ciphertext returns the bytes to persist
func (s Secret) Ciphertext() []byte {
	return s.ciphertext
}

// Present reports whether the secret holds a non-empty value
func (s Secret) Present() bool {
	return holdsSecret(s.ciphertext)
}

// Reveal decrypts the secret
func (s Secret) Reveal(sealer *Sealer) DecryptResult {
	value, err := sealer.Open(s.ciphertext)
	return DecryptResult{Value: value, Err: err}
}

// String never prints the secret
func (s Secret) String() string {
	return "[encrypted]"
}
