package play

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Prefs are the per-user settings the client remembers between runs.
// They live next to, not inside, the shared YAML configuration.
type Prefs struct {
	LastServer string `json:"last_server,omitempty"`
	PlayerName string `json:"player_name,omitempty"`

	// Tokens maps a game id to the seat token the server issued, so a
	// restarted client takes its seat back.
	Tokens map[string]string `json:"tokens,omitempty"`

	path string
}

// PrefsPath returns the prefs file for profile in the user config dir.
// Profiles let several clients on one machine keep separate seats.
func PrefsPath(profile string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locate config dir")
	}
	name := "prefs.json"
	if profile != "" {
		name = "prefs-" + profile + ".json"
	}
	return filepath.Join(dir, "hansa-teutonica", name), nil
}

// LoadPrefs reads path. A missing file yields empty prefs.
func LoadPrefs(path string) (*Prefs, error) {
	p := &Prefs{Tokens: make(map[string]string), path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return p, errors.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, p); err != nil {
		return p, errors.Wrapf(err, "decode %s", path)
	}
	if p.Tokens == nil {
		p.Tokens = make(map[string]string)
	}
	return p, nil
}

// Token returns the stored token for a game.
func (p *Prefs) Token(gameID string) string {
	return p.Tokens[gameID]
}

// SetToken remembers the token for a game.
func (p *Prefs) SetToken(gameID, token string) {
	p.Tokens[gameID] = token
}

// Save writes the prefs back to the file they were loaded from.
func (p *Prefs) Save() error {
	if p.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return errors.Wrap(err, "create prefs dir")
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0644)
}
