package util

import (
	cryptorand "crypto/rand"
	"fmt"
	"math/rand"
)

// inviteAlphabet holds 54 symbols: digits and letters minus the visually
// ambiguous ones (0/O/Q, 1/I/l, i/o).
const inviteAlphabet = "23456789ABCDEFGHJKLMNPRSTUVWXYZabcdefghjkmnpqrstuvwxyz"

const inviteCodeLength = 8

// NewInviteCode returns an 8-character invite code. Uniqueness is
// probabilistic: the 54^8 keyspace is not checked against stored codes.
func NewInviteCode() string {
	code := make([]byte, inviteCodeLength)
	for i := range code {
		code[i] = inviteAlphabet[rand.Intn(len(inviteAlphabet))]
	}
	return string(code)
}

// NewSecureInviteCode is the variant backed by a cryptographically secure
// byte source, mapped into the alphabet by modulo reduction.
func NewSecureInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	if _, err := cryptorand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	code := make([]byte, inviteCodeLength)
	for i, b := range buf {
		code[i] = inviteAlphabet[int(b)%len(inviteAlphabet)]
	}
	return string(code), nil
}
