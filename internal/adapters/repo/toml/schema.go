package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int           `toml:"version"`
	Profile profileSchema `toml:"profile"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported profile schema version %d (current %d)", s.Version, currentSchemaVersion)
	}
	return nil
}

type profileSchema struct {
	ID        string `toml:"id"`
	Email     string `toml:"email"`
	FirstName string `toml:"first_name,omitempty"`
	LastName  string `toml:"last_name,omitempty"`
	Image     string `toml:"image,omitempty"`
	CreatedAt string `toml:"created_at,omitempty"`
	CachedAt  string `toml:"cached_at,omitempty"`
}
