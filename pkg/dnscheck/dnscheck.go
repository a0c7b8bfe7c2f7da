// Package dnscheck verifies that a domain's A records point at the
// deployment server. The check is advisory; callers surface a mismatch but
// never abort on one.
package dnscheck

import (
	"context"
	"fmt"
	"net"
)

// Resolver is the lookup surface, satisfied by *net.Resolver.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Result reports the resolved addresses and whether any of them is the
// server.
type Result struct {
	Records []string
	Match   bool
}

type Checker struct {
	resolver Resolver
}

func New() *Checker {
	return &Checker{resolver: net.DefaultResolver}
}

// NewWithResolver builds a checker around a custom resolver.
func NewWithResolver(r Resolver) *Checker {
	return &Checker{resolver: r}
}

// Check resolves the domain and compares each address against serverHost.
func (c *Checker) Check(ctx context.Context, domain, serverHost string) (*Result, error) {
	addrs, err := c.resolver.LookupIPAddr(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", domain, err)
	}

	result := &Result{}
	for _, addr := range addrs {
		ip := addr.IP.String()
		result.Records = append(result.Records, ip)
		if ip == serverHost {
			result.Match = true
		}
	}
	return result, nil
}
