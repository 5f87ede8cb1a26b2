package seed

import (
	"fmt"

	"usergraph/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

var hobbyPool = []string{
	"reading", "gaming", "hiking", "cooking", "chess", "photography",
	"cycling", "painting", "running", "gardening", "music", "travel",
	"climbing", "knitting", "surfing", "yoga", "baking", "fishing",
}

// Factory builds random but valid user inputs.
type Factory struct {
	faker *gofakeit.Faker
	used  map[string]int
}

// NewFactory creates a factory. A zero seed picks a random one; any other
// value makes the output reproducible.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed), used: make(map[string]int)}
}

// User returns a new CreateUserInput with a username unique within this factory.
// Optional override functions may modify it before it is returned.
func (f *Factory) User(overrides ...func(*service.CreateUserInput)) service.CreateUserInput {
	in := service.CreateUserInput{
		Username: f.username(),
		Age:      f.faker.Number(18, 80),
		Hobbies:  f.Hobbies(f.faker.Number(1, 4)),
	}
	for _, override := range overrides {
		override(&in)
	}
	return in
}

// Hobbies returns n distinct hobbies from the pool.
func (f *Factory) Hobbies(n int) []string {
	pool := append([]string(nil), hobbyPool...)
	f.faker.ShuffleStrings(pool)
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

// Intn returns a value in [0, n).
func (f *Factory) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}

func (f *Factory) username() string {
	base := f.faker.Username()
	n := f.used[base]
	f.used[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s%d", base, n)
}
