// Package resolver turns one query string into a verdict by chaining
// membership checks across the domain partitions: direct lookups first,
// then cross-domain escalation (URL to host/IP, IP to network, network to
// wider network).
package resolver

import (
	"net/netip"
	"net/url"

	"github.com/evilbit/evilcheck/internal/category"
	"github.com/evilbit/evilcheck/internal/store"
)

// Reason explains why a query matched the database.
type Reason string

const (
	ReasonHost           Reason = "host"
	ReasonIP             Reason = "ip"
	ReasonIPInNetwork    Reason = "ip_in_network"
	ReasonNetwork        Reason = "network"
	ReasonInWiderNetwork Reason = "in_wider_network"
	ReasonURL            Reason = "url"
	ReasonMatched        Reason = "matched"
)

// Options control the escalation behavior of Find.
type Options struct {
	// Smarter enables cross-domain escalation: network containment for
	// IPs and networks, host/IP fallback for URLs.
	Smarter bool

	// Resolve is reserved for forward/reverse DNS cross-checks between
	// the host and ip partitions. It is accepted as part of the
	// configuration surface and does not currently alter behavior.
	Resolve bool
}

// DefaultOptions returns the options Find runs with unless overridden.
func DefaultOptions() Options {
	return Options{Smarter: true, Resolve: true}
}

// Verdict is the immutable result of resolving one query. An unsafe
// verdict always carries the reason and the specific entry that matched.
type Verdict struct {
	Query      string
	Safe       bool
	Category   category.Domain
	Reason     Reason // empty when Safe
	Identified string // the matched entry, empty when Safe
}

// Resolver answers queries against a loaded store. The store must have
// completed its load and must not be mutated while the resolver uses it.
type Resolver struct {
	store *store.Store
}

// New creates a resolver over st.
func New(st *store.Store) *Resolver {
	return &Resolver{store: st}
}

// Find categorizes the query and runs the resolution rule for its domain.
// Empty and whitespace-only queries are safe without any lookup.
func (r *Resolver) Find(query string, opts Options) Verdict {
	d, normalized := category.Categorize(query)
	if normalized == "" {
		return Verdict{Query: query, Safe: true, Category: category.Unknown}
	}

	switch d {
	case category.Host:
		if r.store.Partition(category.Host).Contains(normalized) {
			return matched(query, d, ReasonHost, normalized)
		}
	case category.IP:
		if v, ok := r.findIP(query, normalized, opts); ok {
			return v
		}
	case category.Network:
		if v, ok := r.findNetwork(query, normalized, opts); ok {
			return v
		}
	case category.URL:
		if v, ok := r.findURL(query, normalized, opts); ok {
			return v
		}
	case category.Unknown:
		if r.store.Partition(category.Unknown).Contains(normalized) {
			return matched(query, d, ReasonMatched, normalized)
		}
	}

	return Verdict{Query: query, Safe: true, Category: d}
}

func (r *Resolver) findIP(query, normalized string, opts Options) (Verdict, bool) {
	if r.store.Partition(category.IP).Contains(normalized) {
		return matched(query, category.IP, ReasonIP, normalized), true
	}
	if !opts.Smarter {
		return Verdict{}, false
	}
	addr, err := netip.ParseAddr(normalized)
	if err != nil {
		return Verdict{}, false
	}
	if network, ok := r.containingNetwork(addr); ok {
		return matched(query, category.IP, ReasonIPInNetwork, network), true
	}
	return Verdict{}, false
}

func (r *Resolver) findNetwork(query, normalized string, opts Options) (Verdict, bool) {
	if r.store.Partition(category.Network).Contains(normalized) {
		return matched(query, category.Network, ReasonNetwork, normalized), true
	}
	if !opts.Smarter {
		return Verdict{}, false
	}
	prefix, err := netip.ParsePrefix(normalized)
	if err != nil {
		return Verdict{}, false
	}
	// A wider block contains the whole query network when its prefix is
	// strictly shorter and covers the query's base address.
	for _, candidate := range r.store.Partition(category.Network).Entries() {
		wider, err := netip.ParsePrefix(candidate)
		if err != nil {
			continue
		}
		if wider.Bits() < prefix.Bits() && wider.Contains(prefix.Addr()) {
			return matched(query, category.Network, ReasonInWiderNetwork, candidate), true
		}
	}
	return Verdict{}, false
}

func (r *Resolver) findURL(query, normalized string, opts Options) (Verdict, bool) {
	if r.store.Partition(category.URL).Contains(normalized) {
		return matched(query, category.URL, ReasonURL, normalized), true
	}
	if !opts.Smarter {
		return Verdict{}, false
	}

	// Fall back to the URL's host component: host partition first, then
	// the same IP and network-containment chain as an IP query.
	host := urlHost(normalized)
	if host == "" {
		return Verdict{}, false
	}
	if r.store.Partition(category.Host).Contains(host) {
		return matched(query, category.URL, ReasonHost, host), true
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return Verdict{}, false
	}
	canonical := addr.String()
	if r.store.Partition(category.IP).Contains(canonical) {
		return matched(query, category.URL, ReasonIP, canonical), true
	}
	if network, ok := r.containingNetwork(addr); ok {
		return matched(query, category.URL, ReasonIPInNetwork, network), true
	}
	return Verdict{}, false
}

// containingNetwork reports the first stored network containing addr, in
// partition iteration order. The scan does not look for the tightest
// enclosing block. Malformed stored candidates are skipped.
func (r *Resolver) containingNetwork(addr netip.Addr) (string, bool) {
	for _, candidate := range r.store.Partition(category.Network).Entries() {
		prefix, err := netip.ParsePrefix(candidate)
		if err != nil {
			continue
		}
		if prefix.Contains(addr) {
			return candidate, true
		}
	}
	return "", false
}

// urlHost extracts the host component from a normalized URL entry.
func urlHost(normalized string) string {
	u, err := url.Parse("http://" + normalized)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func matched(query string, d category.Domain, reason Reason, identified string) Verdict {
	return Verdict{
		Query:      query,
		Safe:       false,
		Category:   d,
		Reason:     reason,
		Identified: identified,
	}
}
