package dialect

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Rule describes one class of native errors to treat as success. A rule
// matches when all of its set fields match; Kinds restricts the rule to
// specific statement kinds (e.g. "drop"). A rule with neither a code nor a
// substring never matches.
type Rule struct {
	// Code is the native error code as reported by the driver.
	Code string `yaml:"code,omitempty"`
	// Contains is a substring of the native error message.
	Contains string `yaml:"contains,omitempty"`
	// Kinds lists the statement kinds the rule applies to. Empty
	// means all kinds.
	Kinds []string `yaml:"kinds,omitempty"`
}

func (r Rule) matches(kind, code, message string) bool {
	if r.Code == "" && r.Contains == "" {
		return false
	}
	if r.Code != "" && r.Code != code {
		return false
	}
	if r.Contains != "" && !strings.Contains(message, r.Contains) {
		return false
	}
	if len(r.Kinds) == 0 {
		return true
	}
	for _, k := range r.Kinds {
		if strings.EqualFold(k, kind) {
			return true
		}
	}
	return false
}

// Rules is a table of benign native errors that are swallowed instead of
// surfaced, masking noisy diagnostics such as dropping an object that is
// already gone. The table is replaceable at runtime via Reload, and can be
// kept in sync with a file through Watch.
type Rules struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewRules returns a rules table with the given entries.
func NewRules(rules ...Rule) *Rules {
	return &Rules{rules: rules}
}

// Match reports whether a native failure with the given statement kind,
// native code and message should be treated as success.
func (r *Rules) Match(kind, code, message string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rule := range r.rules {
		if rule.matches(kind, code, message) {
			return true
		}
	}
	return false
}

// Reload replaces the rule table.
func (r *Rules) Reload(rules []Rule) {
	r.mu.Lock()
	r.rules = rules
	r.mu.Unlock()
}

// Snapshot returns a copy of the current rules.
func (r *Rules) Snapshot() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// rulesFile is the on-disk YAML shape of a rules table.
type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadFile replaces the rule table with the contents of a YAML file.
func (r *Rules) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("dialect: read rules: %w", err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("dialect: parse rules: %w", err)
	}
	r.Reload(f.Rules)
	return nil
}

// Watch loads the rules file and reloads it whenever it changes on disk.
// It returns a stop function releasing the watcher. Reload failures are
// logged and leave the previous table in place.
func (r *Rules) Watch(path string) (func() error, error) {
	if err := r.LoadFile(path); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("dialect: watch rules: %w", err)
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, fmt.Errorf("dialect: watch rules: %w", err)
	}
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
					if err := r.LoadFile(path); err != nil {
						slog.Warn("rules reload failed", "path", path, "error", err)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("rules watcher error", "path", path, "error", err)
			}
		}
	}()
	return w.Close, nil
}
