package forward_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rskv-p/phfwd/forward"
	"github.com/rskv-p/phfwd/pkg/x_metrics"
	"github.com/rskv-p/phfwd/pkg/x_num"
	"github.com/rskv-p/phfwd/pkg/x_seq"
	"github.com/rskv-p/phfwd/pkg/x_tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...forward.Option) *forward.Forward {
	t.Helper()
	opts = append([]forward.Option{forward.WithLogger(zerolog.Nop())}, opts...)
	f, err := forward.New(opts...)
	require.NoError(t, err)
	t.Cleanup(f.Delete)
	return f
}

// add adds a forwarding and checks both tries afterwards.
func add(t *testing.T, f *forward.Forward, num1, num2 string) {
	t.Helper()
	require.NoError(t, f.Add(num1, num2))
	require.NoError(t, f.Check())
}

func remove(t *testing.T, f *forward.Forward, num string) {
	t.Helper()
	f.Remove(num)
	require.NoError(t, f.Check())
}

func items(s *x_seq.Numbers) []string {
	defer s.Release()
	return s.Slice()
}

func pairs(f *forward.Forward) []string {
	var out []string
	f.Each(func(num1, num2 string) bool {
		out = append(out, num1+">"+num2)
		return true
	})
	return out
}

//---------------------
// Lifecycle
//---------------------

func TestNew_Empty(t *testing.T) {
	f := newEngine(t)
	assert.NotEmpty(t, f.ID())
	assert.Equal(t, 0, f.Len())
	fwd, rev := f.Nodes()
	assert.Equal(t, 1, fwd)
	assert.Equal(t, 1, rev)
	assert.NoError(t, f.Check())
}

func TestNew_AllocatorRefusesRoots(t *testing.T) {
	b := x_tree.NewBudget(1)
	_, err := forward.New(forward.WithAllocator(b), forward.WithLogger(zerolog.Nop()))
	require.ErrorIs(t, err, forward.ErrAllocation)
	require.ErrorIs(t, err, x_tree.ErrNoSpace)
	assert.Equal(t, 0, b.Used())
}

func TestDelete(t *testing.T) {
	b := x_tree.NewBudget(0)
	f, err := forward.New(forward.WithAllocator(b), forward.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	require.NoError(t, f.Add("12", "9"))
	require.NoError(t, f.Add("3", "45"))
	assert.Equal(t, 8, b.Used())

	f.Delete()
	assert.Equal(t, 0, b.Used())
	assert.NotPanics(t, f.Delete)

	assert.Equal(t, []string{"12"}, items(f.Get("12")))
	require.ErrorIs(t, f.Add("1", "2"), x_tree.ErrClosed)
	assert.Equal(t, 0, b.Used())
}

func TestNilEngine(t *testing.T) {
	var f *forward.Forward
	assert.NotPanics(t, f.Delete)
	assert.Nil(t, f.Get("1"))
	assert.Nil(t, f.Reverse("1"))
	assert.Nil(t, f.GetReverse("1"))
	assert.Error(t, f.Add("1", "2"))
	assert.NotPanics(t, func() { f.Remove("1") })
	assert.Equal(t, 0, f.Len())
}

//---------------------
// Get
//---------------------

func TestGet_Identity(t *testing.T) {
	f := newEngine(t)
	for _, n := range []string{"1", "0123456789", "*#", "#"} {
		assert.Equal(t, []string{n}, items(f.Get(n)))
	}
	add(t, f, "55", "1")
	assert.Equal(t, []string{"54"}, items(f.Get("54")))
	assert.Equal(t, []string{"5"}, items(f.Get("5")))
}

func TestGet_LongestPrefix(t *testing.T) {
	f := newEngine(t)
	add(t, f, "12", "9")
	add(t, f, "123", "77")

	assert.Equal(t, []string{"774"}, items(f.Get("1234")))
	assert.Equal(t, []string{"77"}, items(f.Get("123")))
	assert.Equal(t, []string{"95"}, items(f.Get("125")))
	assert.Equal(t, []string{"9"}, items(f.Get("12")))
	assert.Equal(t, []string{"1"}, items(f.Get("1")))
}

func TestAdd_Overwrite(t *testing.T) {
	f := newEngine(t)
	add(t, f, "600", "700")
	add(t, f, "600", "800")

	assert.Equal(t, []string{"800"}, items(f.Get("600")))
	assert.Equal(t, []string{"700"}, items(f.Reverse("700")))
	assert.Equal(t, []string{"600", "800"}, items(f.Reverse("800")))
	assert.Equal(t, 1, f.Len())

	// the stale reverse path 7-0-0 is gone, 8-0-0 remains
	_, rev := f.Nodes()
	assert.Equal(t, 4, rev)
}

func TestAdd_OverwriteSameTarget(t *testing.T) {
	f := newEngine(t)
	add(t, f, "600", "700")
	fwd, rev := f.Nodes()
	add(t, f, "600", "700")
	fwd2, rev2 := f.Nodes()
	assert.Equal(t, fwd, fwd2)
	assert.Equal(t, rev, rev2)
	assert.Equal(t, []string{"600", "700"}, items(f.Reverse("700")))
}

func TestAdd_OverwriteAlongOldPath(t *testing.T) {
	f := newEngine(t)
	add(t, f, "1", "55")
	add(t, f, "1", "5556")
	_, rev := f.Nodes()
	assert.Equal(t, 5, rev)

	add(t, f, "1", "55")
	_, rev = f.Nodes()
	assert.Equal(t, 3, rev)
	assert.Equal(t, []string{"1", "55"}, items(f.Reverse("55")))
}

func TestAdd_Invalid(t *testing.T) {
	f := newEngine(t)
	cases := []struct {
		num1, num2 string
		want       error
	}{
		{"12a", "3", x_num.ErrInvalidNumber},
		{"3", "", x_num.ErrInvalidNumber},
		{"", "3", x_num.ErrInvalidNumber},
		{"12", "12", x_num.ErrSameNumber},
	}
	for _, tc := range cases {
		err := f.Add(tc.num1, tc.num2)
		require.ErrorIs(t, err, forward.ErrInvalidArgument, "%q %q", tc.num1, tc.num2)
		require.ErrorIs(t, err, tc.want)
	}
	assert.Equal(t, 0, f.Len())
	fwd, rev := f.Nodes()
	assert.Equal(t, 1, fwd)
	assert.Equal(t, 1, rev)
}

func TestQuery_Invalid(t *testing.T) {
	f := newEngine(t)
	add(t, f, "1", "2")
	for _, n := range []string{"", "1a", " 1", "1\x00"} {
		assert.Equal(t, 0, f.Get(n).Size(), "%q", n)
		assert.Equal(t, 0, f.Reverse(n).Size(), "%q", n)
		assert.Equal(t, 0, f.GetReverse(n).Size(), "%q", n)
	}
}

//---------------------
// Remove
//---------------------

func TestRemove_Cascades(t *testing.T) {
	f := newEngine(t)
	add(t, f, "22", "11")
	add(t, f, "222", "111")
	remove(t, f, "22")

	assert.Equal(t, []string{"22"}, items(f.Get("22")))
	assert.Equal(t, []string{"222"}, items(f.Get("222")))
	assert.Equal(t, []string{"11"}, items(f.Reverse("11")))
	assert.Equal(t, []string{"111"}, items(f.Reverse("111")))
	fwd, rev := f.Nodes()
	assert.Equal(t, 1, fwd)
	assert.Equal(t, 1, rev)
}

func TestRemove_KeepsSiblingsAndAncestors(t *testing.T) {
	f := newEngine(t)
	add(t, f, "5", "1")
	add(t, f, "5123", "2")
	add(t, f, "5129", "3")
	add(t, f, "6", "4")
	remove(t, f, "512")

	assert.Equal(t, []string{"5>1", "6>4"}, pairs(f))
	assert.Equal(t, []string{"2"}, items(f.Reverse("2")))
	assert.Equal(t, []string{"1", "5"}, items(f.Reverse("1")))
	fwd, _ := f.Nodes()
	assert.Equal(t, 3, fwd)
}

func TestRemove_SharedTarget(t *testing.T) {
	f := newEngine(t)
	add(t, f, "11", "9")
	add(t, f, "22", "9")
	remove(t, f, "1")
	assert.Equal(t, []string{"22", "9"}, items(f.Reverse("9")))
}

func TestRemove_NoopCases(t *testing.T) {
	f := newEngine(t)
	add(t, f, "123", "4")
	before := pairs(f)
	fwd, rev := f.Nodes()

	for _, n := range []string{"", "1x", "9", "1234", "13"} {
		remove(t, f, n)
	}
	assert.Equal(t, before, pairs(f))
	fwd2, rev2 := f.Nodes()
	assert.Equal(t, fwd, fwd2)
	assert.Equal(t, rev, rev2)
}

func TestRemove_Idempotent(t *testing.T) {
	f := newEngine(t)
	add(t, f, "12", "3")
	add(t, f, "14", "3")
	remove(t, f, "12")
	once := pairs(f)
	fwd, rev := f.Nodes()

	remove(t, f, "12")
	assert.Equal(t, once, pairs(f))
	fwd2, rev2 := f.Nodes()
	assert.Equal(t, fwd, fwd2)
	assert.Equal(t, rev, rev2)
}

func TestRemove_DeepPrefix(t *testing.T) {
	f := newEngine(t)
	long := strings.Repeat("1", 50000)
	add(t, f, long, "2")
	add(t, f, "2", long)
	assert.Equal(t, []string{long, "2"}, items(f.Reverse(long)))

	remove(t, f, "1")
	remove(t, f, "2")
	fwd, rev := f.Nodes()
	assert.Equal(t, 1, fwd)
	assert.Equal(t, 1, rev)
}

//---------------------
// Reverse
//---------------------

func TestReverse_IncludesSelf(t *testing.T) {
	f := newEngine(t)
	assert.Equal(t, []string{"42"}, items(f.Reverse("42")))
	add(t, f, "1", "2")
	assert.Contains(t, items(f.Reverse("42")), "42")
}

func TestReverse_SortedDeduped(t *testing.T) {
	f := newEngine(t)
	add(t, f, "2", "9")
	add(t, f, "1", "9")
	assert.Equal(t, []string{"1", "2", "9"}, items(f.Reverse("9")))
	assert.Equal(t, []string{"15", "25", "95"}, items(f.Reverse("95")))

	g := newEngine(t)
	add(t, g, "1", "9")
	add(t, g, "19", "99")
	assert.Equal(t, []string{"19", "99"}, items(g.Reverse("99")))
}

func TestReverse_SymbolOrder(t *testing.T) {
	f := newEngine(t)
	add(t, f, "1#", "5")
	add(t, f, "1*", "5")
	add(t, f, "10", "5")
	add(t, f, "#", "5")
	assert.Equal(t, []string{"10", "1*", "1#", "5", "#"}, items(f.Reverse("5")))
}

func TestGetReverse(t *testing.T) {
	f := newEngine(t)
	add(t, f, "12", "9")
	add(t, f, "123", "77")

	// 123 is rewritten by the longer forwarding, so it is not an inverse of 93
	assert.Equal(t, []string{"123", "93"}, items(f.Reverse("93")))
	assert.Equal(t, []string{"93"}, items(f.GetReverse("93")))

	assert.Equal(t, []string{"1234", "774"}, items(f.GetReverse("774")))

	// 9 itself is covered by no forwarding, 12 maps to it
	assert.Equal(t, []string{"12", "9"}, items(f.GetReverse("9")))

	// 12 is forwarded away, nothing maps onto it
	assert.Empty(t, items(f.GetReverse("12")))
}

//---------------------
// Atomicity
//---------------------

// faulty hands out left nodes, then refuses. left < 0 is unlimited.
type faulty struct {
	left int
	used int
}

func (a *faulty) Alloc() error {
	if a.left == 0 {
		return x_tree.ErrNoSpace
	}
	if a.left > 0 {
		a.left--
	}
	a.used++
	return nil
}

func (a *faulty) Free(n int) { a.used -= n }

type snapshot struct {
	pairs    []string
	fwd, rev int
	used     int
	rev9     []string
}

func snap(f *forward.Forward, a *faulty) snapshot {
	fwd, rev := f.Nodes()
	return snapshot{pairs: pairs(f), fwd: fwd, rev: rev, used: a.used, rev9: items(f.Reverse("999"))}
}

func TestAdd_FailureAtEveryAllocation(t *testing.T) {
	cases := []struct{ num1, num2 string }{
		{"1234", "5678"}, // both paths new
		{"12", "999"},    // overwrite, new target
		{"123", "9"},     // overwrite inside existing paths
		{"7", "99956"},   // reverse grows below an existing set
		{"12345", "5"},   // forward grows, reverse exists
	}
	for _, tc := range cases {
		t.Run(tc.num1+">"+tc.num2, func(t *testing.T) {
			var failures int
			for k := 0; ; k++ {
				a := &faulty{left: -1}
				f := newEngine(t, forward.WithAllocator(a))
				add(t, f, "12", "56")
				add(t, f, "123", "999")
				add(t, f, "5", "1")
				before := snap(f, a)

				a.left = k
				err := f.Add(tc.num1, tc.num2)
				if err == nil {
					require.NoError(t, f.Check())
					assert.Equal(t, []string{tc.num2}, items(f.Get(tc.num1)))
					break
				}
				failures++
				require.ErrorIs(t, err, forward.ErrAllocation)
				require.ErrorIs(t, err, x_tree.ErrNoSpace)
				a.left = -1
				assert.Equal(t, before, snap(f, a), "failure after %d allocations", k)
				require.NoError(t, f.Check())
			}
			t.Logf("%d injected failures", failures)
		})
	}
}

func TestAdd_MaxNodes(t *testing.T) {
	f := newEngine(t, forward.WithMaxNodes(6))
	add(t, f, "12", "3") // 2 roots + 3
	err := f.Add("45", "6")
	require.ErrorIs(t, err, forward.ErrAllocation)
	require.NoError(t, f.Check())
	assert.Equal(t, []string{"12>3"}, pairs(f))

	// room enough for a forwarding reusing existing paths
	add(t, f, "1", "3")
	assert.Equal(t, []string{"1>3", "12>3"}, pairs(f))
}

//---------------------
// Supplements
//---------------------

func TestEach_Order(t *testing.T) {
	f := newEngine(t)
	for _, n := range []string{"#", "9", "1*", "10", "1"} {
		add(t, f, n, "0")
	}
	assert.Equal(t, []string{"1>0", "10>0", "1*>0", "9>0", "#>0"}, pairs(f))

	var n int
	f.Each(func(_, _ string) bool { n++; return n < 2 })
	assert.Equal(t, 2, n)
}

func TestDump(t *testing.T) {
	f := newEngine(t)
	add(t, f, "12", "9")
	var buf bytes.Buffer
	f.Dump(&buf)
	out := buf.String()
	assert.Contains(t, out, "FORWARD")
	assert.Contains(t, out, "REVERSE")
	assert.Contains(t, out, `Key: "12" Value: 9`)
	assert.Contains(t, out, `Key: "9" Value: map[12:{}]`)
}

func TestMetrics(t *testing.T) {
	m := x_metrics.New(nil)
	f := newEngine(t, forward.WithMetrics(m), forward.WithMaxNodes(6))
	add(t, f, "12", "3")
	require.Error(t, f.Add("45", "6"))
	require.Error(t, f.Add("4", "4"))
	f.Remove("9")
	f.Get("1")

	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf))
	out := buf.String()
	assert.Contains(t, out, `phfwd_operations_total{op="add",result="ok"} 1`)
	assert.Contains(t, out, `phfwd_operations_total{op="add",result="no_space"} 1`)
	assert.Contains(t, out, `phfwd_operations_total{op="add",result="invalid"} 1`)
	assert.Contains(t, out, `phfwd_operations_total{op="remove",result="noop"} 1`)
	assert.Contains(t, out, `phfwd_operations_total{op="get",result="ok"} 1`)
	assert.Contains(t, out, `phfwd_trie_nodes{tree="forward"} 3`)
	assert.Contains(t, out, `phfwd_trie_nodes{tree="reverse"} 2`)
	assert.Contains(t, out, "phfwd_forwardings 1")
	assert.Contains(t, out, "phfwd_rollbacks_total 1")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.DebugLevel)
	f, err := forward.New(forward.WithLogger(l), forward.WithID("eng-1"), forward.WithMaxNodes(4))
	require.NoError(t, err)
	defer f.Delete()

	require.NoError(t, f.Add("1", "2"))
	require.Error(t, f.Add("34", "5"))
	f.Remove("1")

	out := buf.String()
	assert.Contains(t, out, `"engine":"eng-1"`)
	assert.Contains(t, out, `"message":"forwarding added"`)
	assert.Contains(t, out, `"message":"add rolled back"`)
	assert.Contains(t, out, `"message":"prefix removed"`)
}
