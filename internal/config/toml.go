package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// tomlFile is a koanf.Provider for a TOML file decoded with BurntSushi/toml.
type tomlFile struct {
	path string
}

// TOMLFile returns a provider reading path. Keys map directly onto koanf
// keys, so nested tables become dotted keys.
func TOMLFile(path string) *tomlFile {
	return &tomlFile{path: path}
}

func (f *tomlFile) ReadBytes() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f *tomlFile) Read() (map[string]any, error) {
	var out map[string]any
	if _, err := toml.DecodeFile(f.path, &out); err != nil {
		return nil, err
	}
	return out, nil
}
