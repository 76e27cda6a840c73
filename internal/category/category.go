// Package category classifies raw identifiers (IP addresses, CIDR
// networks, hostnames, URLs) into the five partition domains and produces
// the canonical form that is stored and queried by the index.
package category

import (
	"net/netip"
	"net/url"
	"strings"
)

// Domain is the classification bucket an entry belongs to.
type Domain int

const (
	Unknown Domain = iota
	IP
	Network
	Host
	URL
)

// Domains lists every domain. The set is closed: categorization assigns
// exactly one of these to any input string.
func Domains() []Domain {
	return []Domain{IP, Host, Network, URL, Unknown}
}

// String returns the domain name used for partition files and reporting.
func (d Domain) String() string {
	switch d {
	case IP:
		return "ip"
	case Network:
		return "network"
	case Host:
		return "host"
	case URL:
		return "url"
	default:
		return "unknown"
	}
}

// Categorize assigns a raw string to a domain and returns its normalized
// form. The same function runs at ingest time (routing an entry to its
// partition) and at query time (choosing a resolution rule), so lookups
// always compare like with like.
//
// Normalization: everything is lower-cased; IP literals (including /32 and
// /128 networks) collapse to the canonical bare address; network literals
// are masked to their base address; URL entries lose the http/https scheme
// and a single trailing slash.
func Categorize(raw string) (Domain, string) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Unknown, ""
	}

	// Address or CIDR literal first: "1.2.3.4", "10.0.0.0/8", "::1/128".
	if p, err := netip.ParsePrefix(s); err == nil {
		if p.Bits() == p.Addr().BitLen() {
			// A host-width prefix is a single address, not a block.
			return IP, p.Addr().String()
		}
		return Network, p.Masked().String()
	}
	if a, err := netip.ParseAddr(s); err == nil {
		return IP, a.String()
	}

	// Everything else goes through URL parsing with an implied scheme.
	u, err := url.Parse(ensureScheme(s))
	if err != nil || u.Host == "" {
		return Unknown, s
	}
	if u.Path != "" && u.Path != "/" {
		return URL, normalizeURL(s)
	}
	if strings.Contains(u.Hostname(), ".") {
		return Host, strings.TrimSuffix(u.Hostname(), ".")
	}
	return Unknown, s
}

// ensureScheme prefixes bare identifiers so url.Parse treats the leading
// component as a host rather than a path.
func ensureScheme(s string) string {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return "http://" + s
}

// normalizeURL strips the scheme and a single trailing slash, leaving
// "host/path" form.
func normalizeURL(s string) string {
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "https://")
	return strings.TrimSuffix(s, "/")
}
