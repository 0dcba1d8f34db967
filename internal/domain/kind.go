package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies one of the fixed set of storable entity kinds.
type Kind int

const (
	KindCountry Kind = iota
	KindUser
	KindRole
	KindAdmin
	KindAirline
	KindCustomer
	KindFlight
	KindTicket
)

var kindNames = [...]string{
	KindCountry:  "country",
	KindUser:     "user",
	KindRole:     "role",
	KindAdmin:    "admin",
	KindAirline:  "airline",
	KindCustomer: "customer",
	KindFlight:   "flight",
	KindTicket:   "ticket",
}

var (
	// ErrUnknownKind reports a well-formed kind string or index that maps to no entity kind.
	ErrUnknownKind = errors.New("entity kind not recognized")
	// ErrBadKindInput reports a kind string that is not even acceptable as input.
	ErrBadKindInput = errors.New("entity kind must be alphanumeric")
)

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// ParseKind resolves a caller-supplied kind name or decimal index into a Kind.
// Input that is not alphanumeric fails with ErrBadKindInput; well-formed input
// that matches no kind fails with ErrUnknownKind.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrBadKindInput
	}
	for _, r := range s {
		isDigit := r >= '0' && r <= '9'
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !isDigit && !isLetter {
			return 0, fmt.Errorf("%w: %q", ErrBadKindInput, s)
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		k := Kind(n)
		if !k.Valid() {
			return 0, fmt.Errorf("%w: index %d", ErrUnknownKind, n)
		}
		return k, nil
	}
	lower := strings.ToLower(s)
	for i, name := range kindNames {
		if name == lower {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
