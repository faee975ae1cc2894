package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// shareTokenLength is the number of NanoID characters in a calendar share
// token. Longer than a regular ID since the token alone grants public read
// access to a calendar.
const shareTokenLength = 24

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "cal-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	// Use default NanoID (21 characters, URL-safe alphabet)
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when you're certain the system entropy is available,
// or when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// ShareToken creates an unguessable public token for calendar sharing.
// Unlike Generate it carries no prefix; the token is the whole URL segment.
func ShareToken() (string, error) {
	token, err := gonanoid.New(shareTokenLength)
	if err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return token, nil
}
