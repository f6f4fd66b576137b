package mods

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte(content), 0o644))
	return dir
}

func TestLoadProject_Defaults(t *testing.T) {
	dir := writeProject(t, `
[project]
name = "demo"
`)

	proj, err := LoadProject(dir)
	require.NoError(t, err)

	assert.Equal(t, "demo", proj.Name)
	assert.Equal(t, []string{"."}, proj.SourceDirs)
	assert.Equal(t, "demo.ll", proj.OutputPath)
	assert.Equal(t, 64, proj.PointerSizeBits)
	assert.Equal(t, 16, proj.StackAlignment)
	assert.True(t, proj.EmitLLVM)
	assert.False(t, proj.EmitIR)
}

func TestLoadProject_Explicit(t *testing.T) {
	dir := writeProject(t, `
[project]
name = "demo"
source-dirs = ["src", "lib"]
output = "out.ll"
emit-ir = true
pointer-size-bits = 32
stack-alignment = 8
`)

	proj, err := LoadProject(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"src", "lib"}, proj.SourceDirs)
	assert.Equal(t, "out.ll", proj.OutputPath)
	assert.True(t, proj.EmitIR)
	assert.Equal(t, 32, proj.PointerSizeBits)
	assert.Equal(t, 8, proj.StackAlignment)
}

func TestLoadProject_MissingName(t *testing.T) {
	dir := writeProject(t, `
[project]
output = "out.ll"
`)

	_, err := LoadProject(dir)
	assert.Error(t, err)
}

func TestSourceFiles(t *testing.T) {
	dir := writeProject(t, `
[project]
name = "demo"
source-dirs = ["src"]
`)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "p"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "A.java"), []byte("class A {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "p", "B.java"), []byte("class B {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "notes.txt"), []byte("x"), 0o644))

	proj, err := LoadProject(dir)
	require.NoError(t, err)

	files, err := proj.SourceFiles()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "A.java", filepath.Base(files[0]))
	assert.Equal(t, "B.java", filepath.Base(files[1]))
}
