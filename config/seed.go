package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type AdminSeed struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// LoadAdminSeed reads the seed file. ${VAR} placeholders are replaced from
// the environment so the password does not have to live in the file.
func LoadAdminSeed(path string) (*AdminSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}

	var seed AdminSeed
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &seed); err != nil {
		return nil, fmt.Errorf("error parsing seed file: %w", err)
	}
	if seed.Email == "" || seed.Password == "" {
		return nil, errors.New("seed file must set email and password")
	}
	return &seed, nil
}
