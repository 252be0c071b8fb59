package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *AssetStore {
	t.Helper()
	s, err := NewAssetStore(filepath.Join(t.TempDir(), "assets"))
	require.NoError(t, err)
	return s
}

func TestSaveNamesFileWithPrefixAndTimestamp(t *testing.T) {
	s := newStore(t)

	rel, err := s.Save("bacheca", "After School", "img_Marco", "photo.PNG", strings.NewReader("fake-bytes"))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(rel, "bacheca/After_School/"), rel)
	base := rel[strings.LastIndex(rel, "/")+1:]
	require.Regexp(t, regexp.MustCompile(`^img_Marco_\d+\.PNG$`), base)

	full, err := s.Resolve(rel)
	require.NoError(t, err)
	bs, err := os.ReadFile(full)
	require.NoError(t, err)
	require.Equal(t, "fake-bytes", string(bs))
}

func TestSaveWithoutSubdirLandsInCategory(t *testing.T) {
	s := newStore(t)

	rel, err := s.Save("profiles", "", "avatar_7", "me.jpg", strings.NewReader("x"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rel, "profiles/"), rel)
	require.NotContains(t, rel[len("profiles/"):], "/")
}

func TestResolveRejectsEscapes(t *testing.T) {
	s := newStore(t)

	for _, rel := range []string{
		"../outside.txt",
		"..",
		"bacheca/../../etc/passwd",
		"/etc/passwd",
	} {
		_, err := s.Resolve(rel)
		require.ErrorIs(t, err, ErrOutsideRoot, rel)
	}

	full, err := s.Resolve("bacheca/x/a.png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(full, s.Root()))
}

func TestRemoveIsBestEffort(t *testing.T) {
	s := newStore(t)

	// None of these may panic or leave the store unusable.
	s.Remove("")
	s.Remove("does/not/exist.png")
	s.Remove("../escape.png")

	rel, err := s.Save("bacheca", "s", "img", "a.png", strings.NewReader("x"))
	require.NoError(t, err)
	s.Remove(rel)

	full, err := s.Resolve(rel)
	require.NoError(t, err)
	_, err = os.Stat(full)
	require.True(t, os.IsNotExist(err))
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"After School":      "After_School",
		"Empire Office":     "Empire_Office",
		"../../etc":         "etc",
		"..hidden":          "hidden",
		"nome strano!?*":    "nome_strano",
		"piano-b_2.finale":  "piano-b_2.finale",
		"":                  "",
		"tabs\tand\nlines":  "tabsandlines",
	}
	for in, want := range cases {
		require.Equal(t, want, Sanitize(in), "input %q", in)
	}
}
