package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, name string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, []byte("class X {}"), 0o644))
}

func TestCollectDir(t *testing.T) {
	d := t.TempDir()

	touch(t, filepath.Join(d, "Square.jack"))
	touch(t, filepath.Join(d, "Main.jack"))
	touch(t, filepath.Join(d, "Main.vm"))
	touch(t, filepath.Join(d, "sub", "Other.jack"))

	files, err := Collect(d)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(d, "Main.jack"),
		filepath.Join(d, "Square.jack"),
	}, files)
}

func TestCollectFile(t *testing.T) {
	d := t.TempDir()
	f := filepath.Join(d, "Main.jack")

	touch(t, f)

	files, err := Collect(f)
	require.NoError(t, err)
	assert.Equal(t, []string{f}, files)

	_, err = Collect(filepath.Join(d, "Missing.jack"))
	assert.Error(t, err)
}

func TestCollectErrors(t *testing.T) {
	d := t.TempDir()

	_, err := Collect(d)
	assert.ErrorContains(t, err, "no .jack files")

	f := filepath.Join(d, "notes.txt")
	touch(t, f)

	_, err = Collect(f)
	assert.ErrorContains(t, err, "not a .jack file")
}

func TestCollectAll(t *testing.T) {
	d := t.TempDir()

	a := filepath.Join(d, "A.jack")
	b := filepath.Join(d, "B.jack")

	touch(t, a)
	touch(t, b)

	files, err := CollectAll([]string{a, d})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestOutput(t *testing.T) {
	src := filepath.Join("games", "Pong", "Ball.jack")

	assert.Equal(t, filepath.Join("games", "Pong", "Ball.vm"), Output(src, "", VM))
	assert.Equal(t, filepath.Join("games", "Pong", "BallT.xml"), Output(src, "", Tokens))
	assert.Equal(t, filepath.Join("out", "Ball.xml"), Output(src, "out", Trace))
}

func TestWrite(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out", "Main.vm")

	require.NoError(t, Write(name, []byte("return\n")))

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "return\n", string(data))
}
