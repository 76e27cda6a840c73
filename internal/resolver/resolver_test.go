package resolver

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/evilbit/evilcheck/internal/category"
	"github.com/evilbit/evilcheck/internal/config"
	"github.com/evilbit/evilcheck/internal/store"
)

// buildResolver ingests the given raw lines, persists them, and returns a
// resolver over a freshly loaded store, mirroring the real read path.
func buildResolver(t *testing.T, lines ...string) *Resolver {
	t.Helper()
	cfg := &config.Config{WorkDir: t.TempDir()}
	log := logrus.New()
	log.SetOutput(io.Discard)

	st := store.New(cfg, log)
	_, err := st.Ingest(lines)
	require.NoError(t, err)
	_, err = st.Finalize()
	require.NoError(t, err)

	loaded, err := store.Load(cfg, log)
	require.NoError(t, err)
	return New(loaded)
}

func TestFindEmptyQuery(t *testing.T) {
	r := buildResolver(t, "example.com")
	for _, q := range []string{"", "   ", "\t"} {
		v := r.Find(q, DefaultOptions())
		require.True(t, v.Safe, "query %q", q)
		require.Equal(t, category.Unknown, v.Category)
		require.Empty(t, v.Reason)
		require.Empty(t, v.Identified)
	}
}

func TestFindHostDirect(t *testing.T) {
	r := buildResolver(t, "example.com")

	v := r.Find("Example.COM", DefaultOptions())
	require.False(t, v.Safe)
	require.Equal(t, category.Host, v.Category)
	require.Equal(t, ReasonHost, v.Reason)
	require.Equal(t, "example.com", v.Identified)

	require.True(t, r.Find("other.com", DefaultOptions()).Safe)
}

func TestFindIPDirect(t *testing.T) {
	r := buildResolver(t, "1.2.3.4")

	v := r.Find("1.2.3.4", DefaultOptions())
	require.False(t, v.Safe)
	require.Equal(t, category.IP, v.Category)
	require.Equal(t, ReasonIP, v.Reason)
	require.Equal(t, "1.2.3.4", v.Identified)
}

func TestFindIPInNetwork(t *testing.T) {
	r := buildResolver(t, "92.244.36.64/28")

	v := r.Find("92.244.36.70", DefaultOptions())
	require.False(t, v.Safe)
	require.Equal(t, category.IP, v.Category)
	require.Equal(t, ReasonIPInNetwork, v.Reason)
	require.Equal(t, "92.244.36.64/28", v.Identified)

	// .80 is outside the /28 block (.64-.79).
	require.True(t, r.Find("92.244.36.80", DefaultOptions()).Safe)
}

func TestFindIPSmarterFalseSuppressesContainment(t *testing.T) {
	r := buildResolver(t, "92.244.36.64/28")
	v := r.Find("92.244.36.70", Options{Smarter: false, Resolve: true})
	require.True(t, v.Safe)
	require.Equal(t, category.IP, v.Category)
}

func TestFindNetworkDirect(t *testing.T) {
	r := buildResolver(t, "92.244.36.64/28")

	v := r.Find("92.244.36.64/28", DefaultOptions())
	require.False(t, v.Safe)
	require.Equal(t, category.Network, v.Category)
	require.Equal(t, ReasonNetwork, v.Reason)
	require.Equal(t, "92.244.36.64/28", v.Identified)
}

func TestFindNetworkInWiderNetwork(t *testing.T) {
	r := buildResolver(t, "92.244.36.64/28")

	v := r.Find("92.244.36.64/30", DefaultOptions())
	require.False(t, v.Safe)
	require.Equal(t, category.Network, v.Category)
	require.Equal(t, ReasonInWiderNetwork, v.Reason)
	require.Equal(t, "92.244.36.64/28", v.Identified)

	// A /24 is wider than the stored /28, not contained by it.
	require.True(t, r.Find("92.244.36.60/24", DefaultOptions()).Safe)
}

func TestFindURLDirect(t *testing.T) {
	r := buildResolver(t, "https://88.to/test-page")

	v := r.Find("88.to/test-page", DefaultOptions())
	require.False(t, v.Safe)
	require.Equal(t, category.URL, v.Category)
	require.Equal(t, ReasonURL, v.Reason)
	require.Equal(t, "88.to/test-page", v.Identified)
}

func TestFindURLEscalatesToHost(t *testing.T) {
	r := buildResolver(t, "88.to")

	v := r.Find("https://88.to/test-page", DefaultOptions())
	require.False(t, v.Safe)
	require.Equal(t, category.URL, v.Category)
	require.Equal(t, ReasonHost, v.Reason)
	require.Equal(t, "88.to", v.Identified)

	// Without escalation there is no direct url entry, so the query is safe.
	require.True(t, r.Find("https://88.to/test-page", Options{Smarter: false, Resolve: true}).Safe)
}

func TestFindURLEscalatesToIPChain(t *testing.T) {
	r := buildResolver(t, "1.2.3.4", "92.244.36.64/28")

	v := r.Find("1.2.3.4/admin", DefaultOptions())
	require.False(t, v.Safe)
	require.Equal(t, category.URL, v.Category)
	require.Equal(t, ReasonIP, v.Reason)
	require.Equal(t, "1.2.3.4", v.Identified)

	v = r.Find("92.244.36.70/admin", DefaultOptions())
	require.False(t, v.Safe)
	require.Equal(t, category.URL, v.Category)
	require.Equal(t, ReasonIPInNetwork, v.Reason)
	require.Equal(t, "92.244.36.64/28", v.Identified)
}

func TestFindNormalizationConsistency(t *testing.T) {
	r := buildResolver(t, "minero.cc")

	a := r.Find("MiNEro.CC/test-page", DefaultOptions())
	b := r.Find("http://minero.cc/test-page", DefaultOptions())

	require.Equal(t, a.Safe, b.Safe)
	require.Equal(t, a.Category, b.Category)
	require.Equal(t, a.Reason, b.Reason)
	require.Equal(t, a.Identified, b.Identified)
	require.False(t, a.Safe)
	require.Equal(t, ReasonHost, a.Reason)
	require.Equal(t, "minero.cc", a.Identified)
}

func TestFindUnknown(t *testing.T) {
	r := buildResolver(t, "randomtoken")

	v := r.Find("randomtoken", DefaultOptions())
	require.False(t, v.Safe)
	require.Equal(t, category.Unknown, v.Category)
	require.Equal(t, ReasonMatched, v.Reason)
	require.Equal(t, "randomtoken", v.Identified)

	require.True(t, r.Find("othertoken", DefaultOptions()).Safe)
}

func TestContainmentSkipsMalformedCandidates(t *testing.T) {
	// Seed the network partition with an entry that does not parse as a
	// prefix by ingesting into an open store directly.
	cfg := &config.Config{WorkDir: t.TempDir()}
	log := logrus.New()
	log.SetOutput(io.Discard)

	st := store.New(cfg, log)
	require.NoError(t, st.Partition(category.Network).Insert("not-a-cidr"))
	require.NoError(t, st.Partition(category.Network).Insert("92.244.36.64/28"))

	v := New(st).Find("92.244.36.70", DefaultOptions())
	require.False(t, v.Safe)
	require.Equal(t, ReasonIPInNetwork, v.Reason)
	require.Equal(t, "92.244.36.64/28", v.Identified)
}

func TestResolveOptionIsInert(t *testing.T) {
	r := buildResolver(t, "88.to")

	with := r.Find("https://88.to/test-page", Options{Smarter: true, Resolve: true})
	without := r.Find("https://88.to/test-page", Options{Smarter: true, Resolve: false})
	require.Equal(t, with, without)
}
