// FILE: lixenwraith/cfgtree/section_test.go
package cfgtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingNames(settings []*Setting) []string {
	names := make([]string, len(settings))
	for i, s := range settings {
		names[i] = s.Name()
	}
	return names
}

// TestPendingPool tests the register-then-attach protocol
func TestPendingPool(t *testing.T) {
	t.Run("DrainOnCreate", func(t *testing.T) {
		root := New()
		_, err := root.Register("foo", Const("baz"), "")
		require.NoError(t, err)
		_, err = root.Register("bar", Const(1), "")
		require.NoError(t, err)
		assert.Equal(t, []string{"foo", "bar"}, root.Pending())

		sec, err := root.Section("level1")
		require.NoError(t, err)
		assert.Empty(t, root.Pending())
		assert.Empty(t, root.Settings())
		assert.Equal(t, []string{"foo", "bar"}, settingNames(sec.Settings()))

		foo, ok := sec.Setting("foo")
		require.True(t, ok)
		assert.Same(t, sec, foo.Section())
		assert.Equal(t, "level1.foo", foo.Path())
	})

	t.Run("ReuseExistingChild", func(t *testing.T) {
		root := New()
		_, _ = root.Register("a", Const(1), "")
		first, err := root.Section("net")
		require.NoError(t, err)

		_, _ = root.Register("b", Const(2), "")
		second, err := root.Section("net")
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, []string{"a", "b"}, settingNames(second.Settings()))
		assert.Len(t, root.Sections(), 1)
	})

	t.Run("AttachToSelf", func(t *testing.T) {
		root := New()
		_, _ = root.Register("debug", Const(false), "")
		self, err := root.Section("")
		require.NoError(t, err)
		assert.Same(t, root, self)

		s, ok := root.Setting("debug")
		require.True(t, ok)
		assert.Equal(t, "debug", s.Path())
	})

	t.Run("ReRegisterReplaces", func(t *testing.T) {
		root := New()
		_, _ = root.Register("x", Const(1), "first")
		_, _ = root.Register("x", Const(2), "second")
		_, err := root.Section("")
		require.NoError(t, err)

		s, _ := root.Setting("x")
		assert.Equal(t, "second", s.Doc())
		assert.Len(t, root.Settings(), 1)
	})

	t.Run("InvalidNames", func(t *testing.T) {
		root := New()
		_, err := root.Register("", Const(1), "")
		assert.ErrorIs(t, err, ErrInvalidName)
		_, err = root.Register("a.b", Const(1), "")
		assert.ErrorIs(t, err, ErrInvalidName)
		_, err = root.Section("a.b")
		assert.ErrorIs(t, err, ErrInvalidName)
	})
}

func TestSectionPath(t *testing.T) {
	root := New(WithSeparator("/"))
	a, err := root.Section("a")
	require.NoError(t, err)
	b, err := a.Section("b")
	require.NoError(t, err)

	assert.Equal(t, "", root.Path())
	assert.Equal(t, "a/b", b.Path())
	assert.Equal(t, "a::b", b.SectionPath("::"))
	assert.Same(t, root, b.Root())
	assert.Same(t, a, b.Parent())
	assert.Equal(t, "/", b.Separator())

	// Dots are ordinary characters with a custom separator
	_, err = b.Register("v1.2", Const("x"), "")
	require.NoError(t, err)
}

func TestWalk(t *testing.T) {
	root := New()
	_, _ = root.Register("r", Const(0), "")
	_, _ = root.Section("")
	_, _ = root.Register("a1", Const(1), "")
	a, _ := root.Section("a")
	_, _ = a.Register("b1", Const(2), "")
	_, _ = a.Section("b")
	_, _ = root.Register("c1", Const(3), "")
	_, _ = root.Section("c")

	var visited []string
	root.Walk(func(sec *Section, s *Setting) {
		assert.Same(t, sec, s.Section())
		visited = append(visited, s.Path())
	})
	assert.Equal(t, []string{"r", "a.a1", "a.b.b1", "c.c1"}, visited)

	visited = nil
	a.Walk(func(_ *Section, s *Setting) {
		visited = append(visited, s.Name())
	})
	assert.Equal(t, []string{"a1", "b1"}, visited)
}

func TestForgetConfigValues(t *testing.T) {
	root := New(WithEnvLookup(EnvMap(nil)))
	_, _ = root.Register("host", Const("localhost"), "")
	_, _ = root.Register("port", Const(80), "")
	_, _ = root.Section("server")

	require.NoError(t, root.Set("server.host", "example.com"))
	require.NoError(t, root.Set("server.port", 8080))
	port := root.FindSetting("server", "port")
	require.NoError(t, port.SetCLI(9090))

	root.ForgetConfigValues()

	root.Walk(func(_ *Section, s *Setting) {
		assert.False(t, s.Persisted(), s.Path())
	})
	host, _ := root.Get("server.host")
	assert.Equal(t, "localhost", host)
	val, _ := root.Get("server.port")
	assert.Equal(t, 9090, val, "cliarg survives forgetting persisted values")
}

func TestOrderedMap(t *testing.T) {
	m := newOrderedMap[int]()
	m.set("b", 1)
	m.set("a", 2)
	m.set("b", 3)

	assert.Equal(t, 2, m.len())
	assert.Equal(t, []int{3, 2}, m.values())
	v, ok := m.get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	m.reset()
	assert.Equal(t, 0, m.len())
	_, ok = m.get("a")
	assert.False(t, ok)
}
