// Package sqlite implements the SQLite dialect on the modernc.org/sqlite
// driver: type-affinity column mapping, result-code error translation, and
// a file URI DSN. SQLite is file-local, so the host/port fields of the
// configuration are ignored.
package sqlite

import (
	"net/url"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/syssam/dialect"
)

// Dialect is the SQLite implementation of dialect.Dialect.
type Dialect struct {
	parsers *dialect.Registry
	rules   *dialect.Rules
}

// Option configures the dialect.
type Option func(*Dialect)

// WithRules replaces the default suppression rules.
func WithRules(r *dialect.Rules) Option {
	return func(d *Dialect) { d.rules = r }
}

// WithParser registers an additional column parser on top of the defaults.
func WithParser(typeName string, fn dialect.ParseFunc) Option {
	return func(d *Dialect) { d.parsers.Register(typeName, fn) }
}

// New returns a SQLite dialect with the default parser registry and
// suppression rules.
func New(opts ...Option) *Dialect {
	d := &Dialect{
		parsers: dialect.NewRegistry(defaultParsers()),
		rules:   dialect.NewRules(defaultRules()...),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the dialect name.
func (*Dialect) Name() string { return dialect.SQLite }

// DriverName returns the database/sql registration name of the native driver.
func (*Dialect) DriverName() string { return "sqlite" }

// VersionQuery returns the probe statement run once after connecting.
func (*Dialect) VersionQuery() string { return "SELECT sqlite_version()" }

// Parsers returns the per-instance column parser registry.
func (d *Dialect) Parsers() *dialect.Registry { return d.parsers }

// Rules returns the suppression rules.
func (d *Dialect) Rules() *dialect.Rules { return d.rules }

// DSN renders a file URI for the database path in Config.Database.
// Free-form options become URI query parameters, e.g.
// {"_pragma": "busy_timeout(10000)"}.
func (d *Dialect) DSN(cfg *dialect.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	dsn := "file:" + cfg.Database
	if len(cfg.Options) == 0 {
		return dsn, nil
	}
	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	params := make([]string, len(keys))
	for i, k := range keys {
		params[i] = url.QueryEscape(k) + "=" + url.QueryEscape(cfg.Options[k])
	}
	return dsn + "?" + strings.Join(params, "&"), nil
}

var _ dialect.Dialect = (*Dialect)(nil)

// defaultRules lists the native failures swallowed by default: dropping an
// object that is already gone reports success.
func defaultRules() []dialect.Rule {
	return []dialect.Rule{
		{Contains: "no such table", Kinds: []string{"drop"}},
		{Contains: "no such view", Kinds: []string{"drop"}},
	}
}
