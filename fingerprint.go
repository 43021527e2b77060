package saluran

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Fingerprint computes the deterministic cache key for a request. Two
// logically identical requests fingerprint identically regardless of header
// or parameter insertion order, and credential-bearing headers never
// contribute to the key.
func Fingerprint(method, target string, headers, params map[string]string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(strings.ToUpper(method)))
	h.Write([]byte{0})
	h.Write([]byte(normalizeTarget(target)))
	h.Write([]byte{0})

	writeSortedPairs(h, headers, true)
	h.Write([]byte{0})
	writeSortedPairs(h, params, false)
	h.Write([]byte{0})
	h.Write(body)

	return hex.EncodeToString(h.Sum(nil))
}

type byteWriter interface {
	Write(p []byte) (int, error)
}

func writeSortedPairs(w byteWriter, pairs map[string]string, stripSensitive bool) {
	if len(pairs) == 0 {
		return
	}
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		if stripSensitive && isSensitiveHeader(k) {
			continue
		}
		keys = append(keys, strings.ToLower(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		w.Write([]byte(k))
		w.Write([]byte{'='})
		w.Write([]byte(valueFold(pairs, k)))
		w.Write([]byte{';'})
	}
}

// valueFold looks a key up case-insensitively; keys were lowercased for sorting.
func valueFold(pairs map[string]string, lower string) string {
	if v, ok := pairs[lower]; ok {
		return v
	}
	for k, v := range pairs {
		if strings.ToLower(k) == lower {
			return v
		}
	}
	return ""
}

// normalizeTarget canonicalizes a URL target: query parameters are re-encoded
// in sorted order and the fragment is dropped. Non-URL targets (operation
// names) pass through unchanged.
func normalizeTarget(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" {
		return target
	}
	u.RawQuery = u.Query().Encode()
	u.Fragment = ""
	return u.String()
}
