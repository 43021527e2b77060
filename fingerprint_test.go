package saluran

import (
	"testing"
)

func TestFingerprintDeterministic(t *testing.T) {
	headers := map[string]string{"Accept": "application/json", "X-Tenant": "acme"}
	params := map[string]string{"page": "1", "limit": "20"}

	first := Fingerprint("GET", "https://api.example.com/users", headers, params, nil)
	second := Fingerprint("GET", "https://api.example.com/users", headers, params, nil)

	if first != second {
		t.Errorf("Expected identical fingerprints, got %s and %s", first, second)
	}
	if len(first) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(first))
	}
}

func TestFingerprintHeaderOrderIndependent(t *testing.T) {
	a := map[string]string{"Accept": "application/json", "X-Tenant": "acme"}
	b := map[string]string{"X-Tenant": "acme", "Accept": "application/json"}

	if Fingerprint("GET", "/users", a, nil, nil) != Fingerprint("GET", "/users", b, nil, nil) {
		t.Error("Expected header insertion order not to affect the fingerprint")
	}
}

func TestFingerprintIgnoresSensitiveHeaders(t *testing.T) {
	plain := map[string]string{"Accept": "application/json"}
	withAuth := map[string]string{"Accept": "application/json", "Authorization": "Bearer secret"}
	withCookie := map[string]string{"Accept": "application/json", "Cookie": "session=abc"}

	base := Fingerprint("GET", "/users", plain, nil, nil)
	if Fingerprint("GET", "/users", withAuth, nil, nil) != base {
		t.Error("Expected Authorization header to be excluded from the fingerprint")
	}
	if Fingerprint("GET", "/users", withCookie, nil, nil) != base {
		t.Error("Expected Cookie header to be excluded from the fingerprint")
	}
}

func TestFingerprintDistinguishesInputs(t *testing.T) {
	base := Fingerprint("GET", "/users", nil, nil, nil)

	cases := map[string]string{
		"method": Fingerprint("POST", "/users", nil, nil, nil),
		"target": Fingerprint("GET", "/orders", nil, nil, nil),
		"params": Fingerprint("GET", "/users", nil, map[string]string{"page": "2"}, nil),
		"body":   Fingerprint("GET", "/users", nil, nil, []byte(`{"id":1}`)),
	}

	for name, fp := range cases {
		if fp == base {
			t.Errorf("Expected different %s to change the fingerprint", name)
		}
	}
}

func TestFingerprintNormalizesQueryOrder(t *testing.T) {
	a := Fingerprint("GET", "https://api.example.com/users?b=2&a=1", nil, nil, nil)
	b := Fingerprint("GET", "https://api.example.com/users?a=1&b=2", nil, nil, nil)

	if a != b {
		t.Error("Expected query parameter order not to affect the fingerprint")
	}
}

func TestFingerprintDropsFragment(t *testing.T) {
	a := Fingerprint("GET", "https://api.example.com/users#section", nil, nil, nil)
	b := Fingerprint("GET", "https://api.example.com/users", nil, nil, nil)

	if a != b {
		t.Error("Expected URL fragment not to affect the fingerprint")
	}
}
