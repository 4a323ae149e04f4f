// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidOTP   = errors.New("invalid or expired OTP")
	ErrInvalidToken = errors.New("invalid token format")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateSessionToken creates a random secure bearer token.
// The token is opaque; it is looked up in the session table on every
// authenticated request.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// GenerateOTP creates a random 6-digit one-time password
func GenerateOTP() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	n := binary.BigEndian.Uint64(b[:]) % 1000000
	return fmt.Sprintf("%06d", n), nil
}

// HashOTP creates a salted HMAC of an OTP code for storage.
// Codes are never persisted in the clear.
func HashOTP(phone, code, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(phone))
	h.Write([]byte(":"))
	h.Write([]byte(code))
	return hex.EncodeToString(h.Sum(nil))
}

// HashToken creates a salted HMAC of a session token for storage.
// Only the hash is persisted, so a dumped session table cannot be
// replayed as bearer tokens.
func HashToken(token, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyOTP checks a submitted code against the stored hash in
// constant time
func VerifyOTP(phone, code, salt, storedHash string) error {
	expected := HashOTP(phone, code, salt)
	if !hmac.Equal([]byte(expected), []byte(storedHash)) {
		return ErrInvalidOTP
	}
	return nil
}

// ParseBearerToken extracts the token from an Authorization header
func ParseBearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrInvalidToken
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
