package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DBProfile is one named connection entry in the database config file.
type DBProfile struct {
	Username string `yaml:"username"`
	Host     string `yaml:"host"`
	Password string `yaml:"password"`
	Port     int    `yaml:"port"`
}

// LoadDBProfile reads the keyed database config file
// ({db_name: {username, host, password, port}}) and returns the entry
// for dbName.
func LoadDBProfile(path, dbName string) (DBProfile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return DBProfile{}, fmt.Errorf("[Config] Failed to read db config %s: %w", path, err)
	}

	profiles := make(map[string]DBProfile)
	if err := yaml.Unmarshal(raw, &profiles); err != nil {
		return DBProfile{}, fmt.Errorf("[Config] Failed to parse db config %s: %w", path, err)
	}

	profile, ok := profiles[dbName]
	if !ok {
		return DBProfile{}, fmt.Errorf("[Config] No profile for database %q in %s", dbName, path)
	}
	return profile, nil
}

// DSN renders the profile as a pgx connection string for dbName.
func (p DBProfile) DSN(dbName string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.Username, p.Password, p.Host, p.Port, dbName)
}
