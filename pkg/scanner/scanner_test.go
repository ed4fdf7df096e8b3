package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindBundlesDoesNotRecurseIntoBundleDirs(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "Synth.vst3", "Contents", "x86_64-linux"))
	mustMkdirAll(t, filepath.Join(root, "nested", "Gain.vst3", "Contents"))
	mustWriteFile(t, filepath.Join(root, "Synth.vst3", "Contents", "x86_64-linux", "Synth.so"))

	found := findBundles(root)
	sort.Strings(found)

	want := []string{
		filepath.Join(root, "Synth.vst3"),
		filepath.Join(root, "nested", "Gain.vst3"),
	}
	sort.Strings(want)

	require.Equal(t, want, found)
}

func TestFindBundlesIgnoresUnrelatedFiles(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "readme.txt"))

	require.Empty(t, findBundles(root))
}

func TestDiscoverReportsPerBundleErrorsWithoutAborting(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "A.vst3"))
	mustMkdirAll(t, filepath.Join(root, "B.vst3"))

	_, errs := Discover([]string{root}, filepath.Join(root, "no-such-scanner-binary"))
	require.Len(t, errs, 2, "one error per bundle")
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o755))
}

func mustWriteFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}
