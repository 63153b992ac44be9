package lending

import "github.com/google/uuid"

// CodeGenerator produces credit codes
type CodeGenerator interface {
	NewCode() uuid.UUID
}

// UUIDGenerator issues random (version 4) UUIDs
type UUIDGenerator struct{}

// NewCode returns a fresh random UUID
func (UUIDGenerator) NewCode() uuid.UUID {
	return uuid.New()
}

// ParseCode parses a caller-supplied credit code
func ParseCode(s string) (uuid.UUID, error) {
	code, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrCreditNotFound
	}
	return code, nil
}
