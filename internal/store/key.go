package store

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/matchc/internal/compiler"
)

// DomainCompilation prefixes compilation keys. The version suffix allows a
// future change of key derivation.
const DomainCompilation = "matchc/compilation/v1"

// compilationDomain scopes keys to the code generator that produced the
// entry, so an upgraded matchc never serves output of an older one.
func compilationDomain(version string) string {
	return DomainCompilation + "/" + version
}

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Key is the cache key of src compiled by this build under the options
// fingerprint. The source is hashed byte for byte: two spellings of the same
// text compile to different output.
func Key(fingerprint, src string) string {
	return versionedKey(compiler.Version, fingerprint, src)
}

func versionedKey(version, fingerprint, src string) string {
	data := make([]byte, 0, len(fingerprint)+1+len(src))
	data = append(data, fingerprint...)
	data = append(data, 0x00)
	data = append(data, src...)
	return hashWithDomain(compilationDomain(version), data)
}

// normalizePath puts a file path in NFC so the same file reported by
// different filesystems is recorded once.
func normalizePath(path string) string {
	return norm.NFC.String(path)
}
