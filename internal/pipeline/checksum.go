package pipeline

import (
	"crypto/md5" //nolint:gosec // checksum, not a security boundary; spec mandates MD5
	"encoding/hex"
)

// ComputeChecksum implements compute_checksum: clean_html then hex MD5 of
// the UTF-8 bytes, yielding the 32-character hex digest stored as
// html_checksum.
func ComputeChecksum(normalizedHTML string) (string, error) {
	cleaned, err := CleanHTML(normalizedHTML)
	if err != nil {
		return "", err
	}
	sum := md5.Sum([]byte(cleaned)) //nolint:gosec
	return hex.EncodeToString(sum[:]), nil
}
