package play

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"localhost:8090", "ws://localhost:8090/ws"},
		{"ws://localhost:8090", "ws://localhost:8090/ws"},
		{"wss://hansa.example.com", "wss://hansa.example.com/ws"},
		{"http://127.0.0.1:9000", "ws://127.0.0.1:9000/ws"},
		{"https://hansa.example.com/play", "wss://hansa.example.com/play"},
		{" ws://host/custom ", "ws://host/custom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dialURL(tt.in), tt.in)
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")

	p, err := LoadPrefs(path)
	require.NoError(t, err)
	assert.Empty(t, p.Token("g1"))

	p.PlayerName = "Ann"
	p.SetToken("g1", "abc")
	require.NoError(t, p.Save())

	again, err := LoadPrefs(path)
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.PlayerName)
	assert.Equal(t, "abc", again.Token("g1"))
}

func TestPrefsPathProfiles(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	plain, err := PrefsPath("")
	require.NoError(t, err)
	second, err := PrefsPath("second")
	require.NoError(t, err)
	assert.NotEqual(t, plain, second)
	assert.Equal(t, "prefs-second.json", filepath.Base(second))
}

func TestAPIURL(t *testing.T) {
	for in, want := range map[string]string{
		"localhost:8090":          "http://localhost:8090",
		"wss://hansa.example.com": "https://hansa.example.com",
		"ws://host:1/ws":          "http://host:1",
	} {
		got, err := apiURL(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}
