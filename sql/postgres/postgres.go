// Package postgres implements the PostgreSQL dialect on top of lib/pq:
// SQLSTATE-based error translation with constraint details, a keyword/value
// DSN, and type mapping that degrades MySQL-only representation options
// instead of rejecting them.
package postgres

import (
	"fmt"
	"sort"
	"strings"

	_ "github.com/lib/pq" // registers the "postgres" driver

	"github.com/syssam/dialect"
)

// Dialect is the PostgreSQL implementation of dialect.Dialect.
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

// New returns a PostgreSQL dialect with the default parser registry and
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
func (*Dialect) Name() string { return dialect.Postgres }

// DriverName returns the database/sql registration name of the native driver.
func (*Dialect) DriverName() string { return "postgres" }

// VersionQuery returns the probe statement run once after connecting.
func (*Dialect) VersionQuery() string { return "SELECT version()" }

// Parsers returns the per-instance column parser registry.
func (d *Dialect) Parsers() *dialect.Registry { return d.parsers }

// Rules returns the suppression rules.
func (d *Dialect) Rules() *dialect.Rules { return d.rules }

// DSN renders a lib/pq keyword/value connection string. Free-form options
// from the configuration are merged verbatim; explicit fields win on
// conflict.
func (d *Dialect) DSN(cfg *dialect.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	kv := make(map[string]string, len(cfg.Options)+6)
	for k, v := range cfg.Options {
		kv[k] = v
	}
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	kv["host"] = host
	kv["port"] = fmt.Sprintf("%d", port)
	kv["dbname"] = cfg.Database
	if cfg.User != "" {
		kv["user"] = cfg.User
	}
	if cfg.Password != "" {
		kv["password"] = cfg.Password
	}
	if _, ok := kv["sslmode"]; !ok {
		kv["sslmode"] = sslMode(cfg.TLS)
	}
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + quoteDSNValue(kv[k])
	}
	return strings.Join(parts, " "), nil
}

func sslMode(tls *dialect.TLSConfig) string {
	switch {
	case tls == nil || !tls.Enabled:
		return "disable"
	case tls.SkipVerify:
		return "require"
	default:
		return "verify-full"
	}
}

// quoteDSNValue quotes values containing spaces or quotes per the lib/pq
// keyword/value syntax.
func quoteDSNValue(v string) string {
	if v == "" {
		return "''"
	}
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

var _ dialect.Dialect = (*Dialect)(nil)

// defaultRules lists the native failures swallowed by default: dropping an
// object that is already gone reports success, masking benign DDL races.
func defaultRules() []dialect.Rule {
	return []dialect.Rule{
		{Code: "42P01", Kinds: []string{"drop"}}, // undefined_table
		{Contains: "does not exist", Kinds: []string{"drop"}},
	}
}
