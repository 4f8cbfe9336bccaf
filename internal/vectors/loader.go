package vectors

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinYAML []byte

// Builtin returns the vector set shipped with the module.
func Builtin() (*File, error) {
	return Parse(builtinYAML)
}

// Parse parses a vector file from YAML bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	if len(f.Vectors) == 0 {
		return nil, &LoadError{
			Message: "vector file must have at least one vector",
		}
	}

	seen := make(map[string]bool, len(f.Vectors))
	for _, v := range f.Vectors {
		if v.ID == "" {
			return nil, &LoadError{
				Message: "vector ID is required",
			}
		}
		if seen[v.ID] {
			return nil, &LoadError{
				Vector:  v.ID,
				Message: "duplicate vector ID",
			}
		}
		seen[v.ID] = true

		if _, err := Build(v.Message); err != nil {
			return nil, &LoadError{
				Vector:  v.ID,
				Message: "invalid message",
				Cause:   err,
			}
		}
	}

	return &f, nil
}

// Load loads a vector file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	f, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{
			File:    path,
			Message: err.Error(),
		}
	}

	return f, nil
}

// Marshal renders f as YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}
