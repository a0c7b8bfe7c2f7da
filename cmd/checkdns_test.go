package cmd

import (
	"fmt"
	"strings"
	"testing"

	"slipway/pkg/dnscheck"
)

func TestDomainAdvisory_LookupFailureIsWarning(t *testing.T) {
	msg := domainAdvisory(nil, fmt.Errorf("lookup app.example.com: no such host"), "app.example.com", "203.0.113.10")

	if !strings.Contains(msg, "skipping DNS check") {
		t.Fatalf("expected lookup failure to downgrade to a skip warning, got %q", msg)
	}
	if strings.Contains(msg, "Error") {
		t.Fatalf("lookup failure must not render as an error: %q", msg)
	}
}

func TestDomainAdvisory_Mismatch(t *testing.T) {
	result := &dnscheck.Result{Records: []string{"198.51.100.7"}}

	msg := domainAdvisory(result, nil, "app.example.com", "203.0.113.10")
	if !strings.Contains(msg, "does not resolve to 203.0.113.10") {
		t.Fatalf("expected propagation warning, got %q", msg)
	}
	if !strings.Contains(msg, "198.51.100.7") {
		t.Fatalf("expected records listed, got %q", msg)
	}
}

func TestDomainAdvisory_Match(t *testing.T) {
	result := &dnscheck.Result{Records: []string{"203.0.113.10"}, Match: true}

	msg := domainAdvisory(result, nil, "app.example.com", "203.0.113.10")
	if !strings.Contains(msg, "points at 203.0.113.10") {
		t.Fatalf("expected success message, got %q", msg)
	}
}
