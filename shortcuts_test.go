package tkb

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDeriveShortcuts(t *testing.T) {
	s := DeriveShortcuts([]string{"cat", "car", "dog"})

	assert.Equal(t, map[rune]string{
		'c': "cat",
		'a': "car",
		'd': "dog",
	}, s.Map())

	l, ok := s.Label('a')
	assert.True(t, ok)
	assert.Equal(t, "car", l)

	k, ok := s.Key("dog")
	assert.True(t, ok)
	assert.Equal(t, 'd', k)

	assert.Empty(t, s.Missing())
}

func TestDeriveShortcutsExhausted(t *testing.T) {
	s := DeriveShortcuts([]string{"ab", "ba", "a", "theorem"})

	_, ok := s.Key("a")
	assert.False(t, ok, "all characters of 'a' are taken")
	assert.Equal(t, []string{"a"}, s.Missing())

	k, _ := s.Key("ba")
	assert.Equal(t, 'b', k)
	k, _ = s.Key("theorem")
	assert.Equal(t, 't', k)

	_, ok = s.Label('x')
	assert.False(t, ok)
}

func TestDeriveShortcutsSkipsSpaces(t *testing.T) {
	s := DeriveShortcuts([]string{"ab", "a c"})
	k, ok := s.Key("a c")
	assert.True(t, ok)
	assert.Equal(t, 'c', k)
}

func TestSplit(t *testing.T) {
	s := DeriveShortcuts([]string{"proof", "proposition", "lemma"})

	pre, key, post := s.Split("proposition")
	assert.Equal(t, "p", pre)
	assert.Equal(t, "r", key)
	assert.Equal(t, "oposition", post)

	pre, key, post = s.Split("unknown")
	assert.Equal(t, "unknown", pre)
	assert.Empty(t, key)
	assert.Empty(t, post)
}

func TestSplitMultiByte(t *testing.T) {
	s := DeriveShortcuts([]string{"a", "aé"})
	pre, key, post := s.Split("aé")
	assert.Equal(t, "a", pre)
	assert.Equal(t, "é", key)
	assert.Empty(t, post)
}

func TestSplitInvalidUTF8(t *testing.T) {
	s := DeriveShortcuts([]string{"a", "a\xffb"})
	k, ok := s.Key("a\xffb")
	assert.True(t, ok)
	assert.Equal(t, utf8.RuneError, k)

	pre, key, post := s.Split("a\xffb")
	assert.Equal(t, "a", pre)
	assert.Equal(t, "\xff", key)
	assert.Equal(t, "b", post)
}
