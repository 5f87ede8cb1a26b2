package seed

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"usergraph/internal/validation"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/demo.yml
var demoFixture []byte

// Fixture is a hand-written graph. Friendships name users by username.
type Fixture struct {
	Users       []FixtureUser `yaml:"users"`
	Friendships [][]string    `yaml:"friendships"`
}

type FixtureUser struct {
	Username string   `yaml:"username"`
	Age      int      `yaml:"age"`
	Hobbies  []string `yaml:"hobbies"`
}

// DemoFixture returns the built-in demo graph.
func DemoFixture() (*Fixture, error) {
	return ParseFixture(demoFixture)
}

// LoadFixtureFile reads and validates a YAML fixture from path.
func LoadFixtureFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(raw)
}

// ParseFixture decodes and validates a YAML fixture.
func ParseFixture(raw []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// Validate checks every user against the API's create rules and every
// friendship against the declared users.
func (fx *Fixture) Validate() error {
	known := make(map[string]struct{}, len(fx.Users))
	for i, u := range fx.Users {
		req := validation.CreateUserRequest{Username: u.Username, Age: u.Age, Hobbies: u.Hobbies}
		if err := validation.Struct(req); err != nil {
			return fmt.Errorf("fixture user %d (%q): %w", i, u.Username, err)
		}
		if _, dup := known[u.Username]; dup {
			return fmt.Errorf("fixture user %q declared twice", u.Username)
		}
		known[u.Username] = struct{}{}
	}

	for i, pair := range fx.Friendships {
		if len(pair) != 2 {
			return fmt.Errorf("fixture friendship %d: want 2 usernames, got %d", i, len(pair))
		}
		for _, name := range pair {
			if _, ok := known[name]; !ok {
				return fmt.Errorf("fixture friendship %d: unknown user %q", i, name)
			}
		}
		if pair[0] == pair[1] {
			return fmt.Errorf("fixture friendship %d: %q cannot befriend themselves", i, pair[0])
		}
	}
	return nil
}
