// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNoIdentity   = errors.New("no identity presented")
	ErrInvalidToken = errors.New("invalid identity token")
)

// DevIdentity is what the dev x-authorization token maps to.
var DevIdentity = Identity{Sub: "dev-user", Email: "dev@localhost"}

// Identity is the authenticated caller: a stable subject id plus the email
// the caller signed up with. Invitations match on either.
type Identity struct {
	Sub   string
	Email string
}

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// SignIdentity creates a verifiable identity token: base64(sub\nemail)
// plus an HMAC-SHA256 signature over it. Deterministic for a given salt,
// so tokens can be validated without storing them.
func SignIdentity(id Identity, salt string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(id.Sub + "\n" + id.Email))
	return payload + "." + sign(payload, salt)
}

// VerifyIdentity validates a token produced by SignIdentity and returns
// the identity it carries.
func VerifyIdentity(token, salt string) (Identity, error) {
	payload, sig, found := strings.Cut(token, ".")
	if !found {
		return Identity{}, ErrInvalidToken
	}
	if !hmac.Equal([]byte(sig), []byte(sign(payload, salt))) {
		return Identity{}, ErrInvalidToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	sub, email, found := strings.Cut(string(raw), "\n")
	if !found || sub == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{Sub: sub, Email: email}, nil
}

// RequestIdentity resolves the caller of an HTTP request. The dev
// x-authorization header substitutes for the production token mechanism
// when it matches the configured dev token; otherwise the value (or a
// standard bearer token) must be a signed identity token.
func RequestIdentity(r *http.Request, devToken, salt string) (Identity, error) {
	raw := r.Header.Get("x-authorization")
	if raw == "" {
		raw = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if raw == "" {
		return Identity{}, ErrNoIdentity
	}

	if devToken != "" && hmac.Equal([]byte(raw), []byte(devToken)) {
		return DevIdentity, nil
	}

	return VerifyIdentity(raw, salt)
}

func sign(payload, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(payload))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}
