package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// inviteAlphabet omits characters that are easy to misread (0/O, 1/I/L).
const inviteAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const (
	inviteGroups    = 3
	inviteGroupSize = 4
)

// GenerateInviteCode returns a team invite code such as "K7QM-2XHD-9RTA".
func GenerateInviteCode() (string, error) {
	buf := make([]byte, inviteGroups*inviteGroupSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	var b strings.Builder
	for i, v := range buf {
		if i > 0 && i%inviteGroupSize == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(inviteAlphabet[int(v)%len(inviteAlphabet)])
	}
	return b.String(), nil
}

// NormalizeInviteCode uppercases a user supplied code and trims whitespace.
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
