// FILE: lixenwraith/cfgtree/accessor_test.go
package cfgtree_test

import (
	"testing"

	"github.com/lixenwraith/cfgtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessor(t *testing.T) {
	root := buildTree(t)
	acc := root.Accessor()

	t.Run("ChainedSections", func(t *testing.T) {
		db, err := acc.Section("db")
		require.NoError(t, err)
		pool, err := db.Section("pool")
		require.NoError(t, err)

		size, err := pool.Get("size")
		require.NoError(t, err)
		assert.Equal(t, 10, size)
	})

	t.Run("SectionYieldsAccessor", func(t *testing.T) {
		v, err := acc.Get("server")
		require.NoError(t, err)
		server, ok := v.(*cfgtree.Accessor)
		require.True(t, ok)

		sec, _ := root.Subsection("server")
		assert.Same(t, sec, server.Object())

		port, err := server.Get("port")
		require.NoError(t, err)
		assert.Equal(t, 8080, port)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := acc.Get("host")
		assert.ErrorIs(t, err, cfgtree.ErrAmbiguous)

		_, err = acc.Get("nothing")
		assert.ErrorIs(t, err, cfgtree.ErrNotFound)

		_, err = acc.Section("debug")
		assert.ErrorIs(t, err, cfgtree.ErrNotSection)

		_, err = acc.Get("db.pool")
		assert.ErrorIs(t, err, cfgtree.ErrInvalidName)
	})

	t.Run("ObjectEscapesToRoot", func(t *testing.T) {
		assert.Same(t, root, acc.Object())
	})
}
