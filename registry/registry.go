package registry

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"

	"github.com/unitlite/unitlite/assert"
)

// TestFunc is a registered test body. It receives a fresh handle per
// execution and reports failure by raising through it.
type TestFunc func(t *assert.T)

// Descriptor is one registered test: a unique name, a wall-clock limit, and
// the body to run. A zero TimeLimit means the test runs unbounded.
type Descriptor struct {
	Name      string
	TimeLimit time.Duration
	Body      TestFunc
}

// ConfigurationError reports a rejected registration or a bad suite config.
// It is non-fatal: the registry stays usable after returning one.
type ConfigurationError struct {
	Name string
	Msg  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for %q: %s", e.Name, e.Msg)
}

// Config contains registry configuration
type Config struct {
	Log log.Logger

	// SuiteConfigFile optionally points at a YAML file carrying the default
	// time limit and per-test overrides.
	SuiteConfigFile string

	// DefaultTimeLimit applies to tests registered without an explicit limit.
	// The suite config file takes precedence when it sets one.
	DefaultTimeLimit time.Duration
}

// Registry holds the set of registered tests for a run. Registration and
// lookup are safe for concurrent use.
type Registry struct {
	config Config

	mu        sync.RWMutex
	tests     map[string]*Descriptor
	overrides map[string]time.Duration
}

// NewRegistry creates a new registry instance
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	r := &Registry{
		config:    cfg,
		tests:     make(map[string]*Descriptor),
		overrides: make(map[string]time.Duration),
	}

	if cfg.SuiteConfigFile != "" {
		if err := r.loadSuiteConfig(cfg.SuiteConfigFile); err != nil {
			return nil, fmt.Errorf("failed to load suite config: %w", err)
		}
	}

	return r, nil
}

// Register adds a test under the registry's default time limit. The first
// registration of a name wins: a duplicate is rejected with a
// ConfigurationError and the original descriptor is left untouched.
func (r *Registry) Register(name string, body TestFunc) error {
	return r.RegisterTimed(name, r.config.DefaultTimeLimit, body)
}

// RegisterTimed adds a test with an explicit time limit. A limit of zero
// disables the bound for this test.
func (r *Registry) RegisterTimed(name string, limit time.Duration, body TestFunc) error {
	if name == "" {
		return &ConfigurationError{Name: name, Msg: "test name must not be empty"}
	}
	if body == nil {
		return &ConfigurationError{Name: name, Msg: "test body must not be nil"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tests[name]; exists {
		r.config.Log.Warn("Duplicate test registration rejected", "test", name)
		return &ConfigurationError{Name: name, Msg: "already registered"}
	}
	if override, ok := r.overrides[name]; ok {
		limit = override
	}
	r.tests[name] = &Descriptor{Name: name, TimeLimit: limit, Body: body}
	r.config.Log.Debug("Registered test", "test", name, "limit", limit)
	return nil
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.tests[name]
	return d, ok
}

// Names returns all registered test names in lexicographic order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tests))
	for name := range r.tests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered tests.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tests)
}

// GetConfig returns the registry configuration
func (r *Registry) GetConfig() Config {
	return r.config
}

// Select resolves selection tokens to registered test names. A token selects
// every name containing it as a substring; a token matching no name that way
// instead selects names whose acronym equals it exactly. Tokens that still
// match nothing produce a warning. When the selected set ends up empty,
// including the no-tokens case, every registered test is selected. The
// returned names are deduplicated and lexicographically ordered.
func (r *Registry) Select(tokens []string) ([]string, []string) {
	if len(tokens) == 0 {
		return r.Names(), nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	selected := make(map[string]bool)
	var warnings []string
	for _, token := range tokens {
		matched := false
		for name := range r.tests {
			if strings.Contains(name, token) {
				selected[name] = true
				matched = true
			}
		}
		if !matched {
			for name := range r.tests {
				if acronym(name) == token {
					selected[name] = true
					matched = true
				}
			}
		}
		if !matched {
			warnings = append(warnings, fmt.Sprintf("no test matches selection token %q", token))
		}
	}

	names := make([]string, 0, len(selected))
	for name := range selected {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		for name := range r.tests {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	return names, warnings
}

// acronym reduces a test name to its first character followed by every later
// uppercase character, so "TestBasicMath" abbreviates to "TBM".
func acronym(name string) string {
	var b strings.Builder
	for i, c := range name {
		if i == 0 || unicode.IsUpper(c) {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// suiteConfig is the YAML shape of the optional suite config file. Limits
// are duration strings ("30s", "2m"); "0s" disables the bound for a test.
type suiteConfig struct {
	DefaultTimeLimit string `yaml:"default_time_limit"`
	Tests            []struct {
		Name      string `yaml:"name"`
		TimeLimit string `yaml:"time_limit"`
	} `yaml:"tests"`
}

// loadSuiteConfig loads the suite config file and folds it into the
// registry's defaults and per-test overrides.
func (r *Registry) loadSuiteConfig(path string) error {
	r.config.Log.Debug("Reading suite config file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var cfg suiteConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg.DefaultTimeLimit != "" {
		d, err := time.ParseDuration(cfg.DefaultTimeLimit)
		if err != nil {
			return &ConfigurationError{Name: path, Msg: "bad default_time_limit: " + err.Error()}
		}
		r.config.DefaultTimeLimit = d
	}
	for _, t := range cfg.Tests {
		if t.Name == "" {
			return &ConfigurationError{Name: path, Msg: "suite config entry with empty test name"}
		}
		// an omitted time_limit disables the bound for the test
		var d time.Duration
		if t.TimeLimit != "" {
			var err error
			d, err = time.ParseDuration(t.TimeLimit)
			if err != nil {
				return &ConfigurationError{Name: path, Msg: fmt.Sprintf("bad time_limit for %q: %v", t.Name, err)}
			}
		}
		r.overrides[t.Name] = d
	}
	return nil
}
