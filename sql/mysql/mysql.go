// Package mysql implements the MySQL/MariaDB dialect: column type mapping
// with MySQL's length-tiered string types, error translation based on
// server error numbers, and DSN construction through the native driver's
// own configuration type.
package mysql

import (
	"github.com/go-sql-driver/mysql"

	"github.com/syssam/dialect"
)

// Dialect is the MySQL implementation of dialect.Dialect.
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

// New returns a MySQL dialect with the default parser registry and
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
func (*Dialect) Name() string { return dialect.MySQL }

// DriverName returns the database/sql registration name of the native driver.
func (*Dialect) DriverName() string { return "mysql" }

// VersionQuery returns the probe statement run once after connecting.
func (*Dialect) VersionQuery() string { return "SELECT VERSION()" }

// Parsers returns the per-instance column parser registry.
func (d *Dialect) Parsers() *dialect.Registry { return d.parsers }

// Rules returns the suppression rules.
func (d *Dialect) Rules() *dialect.Rules { return d.rules }

// DSN renders the native driver DSN. Free-form options from the
// configuration are merged verbatim into the driver parameters.
func (d *Dialect) DSN(cfg *dialect.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = cfg.Addr(3306)
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Database
	if cfg.TLS != nil && cfg.TLS.Enabled {
		mc.TLSConfig = "true"
		if cfg.TLS.SkipVerify {
			mc.TLSConfig = "skip-verify"
		}
	}
	if len(cfg.Options) > 0 {
		mc.Params = make(map[string]string, len(cfg.Options))
		for k, v := range cfg.Options {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN(), nil
}

var _ dialect.Dialect = (*Dialect)(nil)

// defaultRules lists the native failures swallowed by default: dropping a
// table that is already gone is reported as success, masking benign DDL
// races between concurrent migrations.
func defaultRules() []dialect.Rule {
	return []dialect.Rule{
		{Code: "1051", Kinds: []string{"drop"}},           // ER_BAD_TABLE_ERROR: unknown table
		{Contains: "Unknown table", Kinds: []string{"drop"}},
	}
}
