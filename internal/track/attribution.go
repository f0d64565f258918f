// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package track

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ResolveCreator picks the single creator to attribute an event to.
// Precedence, highest first:
//  1. explicit creator named by the call site
//  2. the creator reference persisted in the visitor's cookie
//  3. an @-prefixed utm_source from the metadata bag
//  4. the unknown sentinel
//
// A later, more specific signal always overrides an earlier generic
// referral tag; this ordering must not change.
func ResolveCreator(explicit, cookieCreator string, meta Metadata) string {
	if c := strings.TrimSpace(explicit); c != "" {
		return c
	}
	if c := strings.TrimSpace(cookieCreator); c != "" {
		return c
	}
	if src := meta.Str(MetaUTMSource); strings.HasPrefix(src, "@") {
		return src
	}
	return UnknownCreator
}

// Fingerprint derives a stable, non-reversible visitor identifier from
// the remote IP and user agent. The salt keeps fingerprints from being
// comparable across deployments.
func Fingerprint(ip, userAgent, salt string) string {
	sum := sha256.Sum256([]byte(ip + "|" + userAgent + "|" + salt))
	return hex.EncodeToString(sum[:])
}
