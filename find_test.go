// FILE: lixenwraith/cfgtree/find_test.go
package cfgtree_test

import (
	"testing"

	"github.com/lixenwraith/cfgtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree declares:
//
//	debug
//	server.host, server.port
//	db.host, db.port, db.pool.size
func buildTree(t *testing.T) *cfgtree.Section {
	t.Helper()
	root := cfgtree.New(cfgtree.WithEnvLookup(cfgtree.EnvMap(nil)))

	register := func(sec *cfgtree.Section, name string, def any) {
		_, err := sec.Register(name, cfgtree.Const(def), "")
		require.NoError(t, err)
	}
	attach := func(sec *cfgtree.Section, name string) *cfgtree.Section {
		child, err := sec.Section(name)
		require.NoError(t, err)
		return child
	}

	register(root, "debug", false)
	attach(root, "")
	register(root, "host", "localhost")
	register(root, "port", 8080)
	attach(root, "server")
	register(root, "host", "dbhost")
	register(root, "port", 5432)
	db := attach(root, "db")
	register(db, "size", 10)
	attach(db, "pool")

	return root
}

// TestResolve tests bare-name and path lookups
func TestResolve(t *testing.T) {
	t.Run("AmbiguousBareName", func(t *testing.T) {
		root := buildTree(t)

		_, err := root.Resolve("host")
		assert.ErrorIs(t, err, cfgtree.ErrAmbiguous)
		_, err = root.Get("host")
		assert.ErrorIs(t, err, cfgtree.ErrAmbiguous)
		assert.ErrorIs(t, root.Set("host", "x"), cfgtree.ErrAmbiguous)
	})

	t.Run("FullPathDisambiguates", func(t *testing.T) {
		root := buildTree(t)

		require.NoError(t, root.Set("server.host", "example.com"))
		val, err := root.Get("server.host")
		require.NoError(t, err)
		assert.Equal(t, "example.com", val)

		val, err = root.Get("db.host")
		require.NoError(t, err)
		assert.Equal(t, "dbhost", val)
	})

	t.Run("UniqueNameFoundInDescendants", func(t *testing.T) {
		root := buildTree(t)

		val, err := root.Get("size")
		require.NoError(t, err)
		assert.Equal(t, 10, val)

		node, err := root.Resolve("pool")
		require.NoError(t, err)
		pool, ok := node.(*cfgtree.Section)
		require.True(t, ok)
		assert.Equal(t, "db.pool", pool.Path())
	})

	t.Run("ExactMatchShadowsDescendants", func(t *testing.T) {
		root := buildTree(t)
		db, ok := root.Subsection("db")
		require.True(t, ok)
		_, err := db.Register("debug", cfgtree.Const(true), "")
		require.NoError(t, err)
		_, err = db.Section("")
		require.NoError(t, err)

		val, err := root.Get("debug")
		require.NoError(t, err)
		assert.Equal(t, false, val)

		val, err = root.Get("db.debug")
		require.NoError(t, err)
		assert.Equal(t, true, val)
	})

	t.Run("NotFound", func(t *testing.T) {
		root := buildTree(t)

		for _, name := range []string{"missing", "nosuch.port", "server.nosuch", "server.pool.size"} {
			_, err := root.Resolve(name)
			assert.ErrorIs(t, err, cfgtree.ErrNotFound, name)
		}
	})

	t.Run("WriteToSection", func(t *testing.T) {
		root := buildTree(t)
		assert.ErrorIs(t, root.Set("server", 1), cfgtree.ErrNotSetting)
		_, err := root.Lookup("pool")
		assert.ErrorIs(t, err, cfgtree.ErrNotSetting)
	})

	t.Run("SectionRelativeLookup", func(t *testing.T) {
		root := buildTree(t)
		db, _ := root.Subsection("db")

		val, err := db.Get("host")
		require.NoError(t, err)
		assert.Equal(t, "dbhost", val)

		val, err = db.Get("pool.size")
		require.NoError(t, err)
		assert.Equal(t, 10, val)
	})
}

func TestFind(t *testing.T) {
	root := buildTree(t)

	nodes, err := root.Find(nil, false)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Same(t, root, nodes[0])

	nodes, err = root.Find([]string{"port"}, false)
	require.NoError(t, err)
	assert.Len(t, nodes, 2)

	nodes, err = root.Find([]string{"pool"}, true)
	require.NoError(t, err)
	assert.Empty(t, nodes)

	nodes, err = root.Find([]string{"db", "pool", "size"}, false)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "db.pool.size", nodes[0].Path())

	_, err = root.Find([]string{"db", "nosuch", "size"}, false)
	assert.ErrorIs(t, err, cfgtree.ErrNotFound)

	s := root.FindSetting("server", "port")
	require.NotNil(t, s)
	assert.Equal(t, "server.port", s.Path())
	assert.Nil(t, root.FindSetting("nope"))
	assert.Nil(t, root.FindSetting("db", "pool"))
}

// TestEndToEnd walks through reading, writing and serializing a small tree
func TestEndToEnd(t *testing.T) {
	root := cfgtree.New(cfgtree.WithEnvLookup(cfgtree.EnvMap(nil)))
	_, err := root.Register("foo", cfgtree.Const("baz"), "A test setting.")
	require.NoError(t, err)
	_, err = root.Section("level1")
	require.NoError(t, err)

	node, err := root.Get("level1")
	require.NoError(t, err)
	level1, ok := node.(*cfgtree.Section)
	require.True(t, ok)

	val, err := level1.Get("foo")
	require.NoError(t, err)
	assert.Equal(t, "baz", val)

	require.NoError(t, root.Set("level1.foo", "zab"))
	val, err = level1.Get("foo")
	require.NoError(t, err)
	assert.Equal(t, "zab", val)

	foo, err := root.Lookup("level1.foo")
	require.NoError(t, err)
	assert.True(t, foo.Persisted())

	out := make(map[string]any)
	n := root.DownloadTo(out, cfgtree.DownloadOptions{SkipUnset: true})
	assert.Equal(t, 1, n)
	assert.Equal(t, map[string]any{"level1": map[string]any{"foo": "zab"}}, out)
}
