// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides OTP and session token primitives.

# One-Time Passwords

OTP codes are six random digits, stored only as an HMAC:

	code, err := auth.GenerateOTP()
	hash := auth.HashOTP(phone, code, salt)

Verification is constant-time:

	err := auth.VerifyOTP(phone, submittedCode, salt, storedHash)

The plaintext code never touches the database or any API response; it
is handed to the SMS provider and forgotten.

# Session Tokens

Session tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateSessionToken()

Like OTP codes, tokens are persisted only as a salted HMAC, so a
session-table dump cannot be replayed:

	hash := auth.HashToken(token, salt)

Tokens are URL-safe base64 encoded without padding and sent as
Authorization bearer tokens:

	token, err := auth.ParseBearerToken(r.Header.Get("Authorization"))

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
