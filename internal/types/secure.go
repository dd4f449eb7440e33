package types

// SecretString wraps a credential so it cannot leak through logging or JSON
// serialization. The underlying value is only reachable via Value().
type SecretString struct {
	value string
}

// NewSecretString wraps a raw secret value.
func NewSecretString(v string) SecretString { return SecretString{value: v} }

// Value returns the underlying secret.
func (s SecretString) Value() string { return s.value }

// IsZero reports whether no secret has been set.
func (s SecretString) IsZero() bool { return s.value == "" }

// String implements fmt.Stringer with a redacted placeholder.
func (s SecretString) String() string {
	if s.value == "" {
		return ""
	}
	return "[REDACTED]"
}

// MarshalJSON always serializes the redacted placeholder.
func (s SecretString) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalText allows envconfig and JSON decoding to populate the secret
// from its raw representation.
func (s *SecretString) UnmarshalText(text []byte) error {
	s.value = string(text)
	return nil
}
