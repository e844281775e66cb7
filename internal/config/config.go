// Package config reads the rowcheck YAML configuration (spec.md §6)
// following the teacher's internal/parser/toml convention: a
// file-shaped struct decoded strictly, then converted into the
// domain types the rest of the program operates on.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rowcheck/rowcheck/internal/errs"
	"github.com/rowcheck/rowcheck/internal/plan"
	"github.com/rowcheck/rowcheck/internal/rdbms"
)

// Config is the fully-parsed, validated configuration for a run.
type Config struct {
	SRC         rdbms.ConnParams
	TGT         rdbms.ConnParams
	ThreadCount int
	Scope       plan.Scope
}

const defaultThreadCount = 4

type file struct {
	Databases struct {
		SRC fileConn `yaml:"src"`
		TGT fileConn `yaml:"tgt"`
	} `yaml:"databases"`
	Performance struct {
		ThreadCount int `yaml:"thread_count"`
	} `yaml:"performance"`
	CheckScope struct {
		SchemaMapping map[string]string `yaml:"schema_mapping"`
		Schemas       []string          `yaml:"schemas"`
		Tables        []string          `yaml:"tables"`
		ExcludeTables []string          `yaml:"exclude_tables"`
		CustomSQLs    []fileCustomSQL   `yaml:"custom_sqls"`
	} `yaml:"check_scope"`
}

type fileConn struct {
	URL       string `yaml:"url"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	DriverJar string `yaml:"driver_jar"`
}

type fileCustomSQL struct {
	Name string `yaml:"name"`
	SQL  string `yaml:"sql"`
}

// LoadFile opens path and parses it as a rowcheck config, defaulting
// to "config.yml" when path is empty, matching spec.md §6's CLI
// contract.
func LoadFile(path string) (Config, error) {
	if path == "" {
		path = "config.yml"
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, errs.NewConfigError("path", fmt.Errorf("open %q: %w", path, err))
	}
	defer f.Close()

	return Load(f)
}

// Load decodes r as YAML with strict unknown-field rejection and
// validates it into a Config.
func Load(r io.Reader) (Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw file
	if err := dec.Decode(&raw); err != nil {
		return Config{}, errs.NewConfigError("yaml", err)
	}

	return validate(raw)
}

func validate(raw file) (Config, error) {
	if raw.Databases.SRC.URL == "" {
		return Config{}, errs.NewConfigError("databases.src.url", fmt.Errorf("required"))
	}
	if raw.Databases.TGT.URL == "" {
		return Config{}, errs.NewConfigError("databases.tgt.url", fmt.Errorf("required"))
	}

	threadCount := raw.Performance.ThreadCount
	if threadCount <= 0 {
		threadCount = defaultThreadCount
	}

	srcJar, err := rdbms.ResolveDriverJar(raw.Databases.SRC.DriverJar)
	if err != nil {
		return Config{}, errs.NewConfigError("databases.src.driver_jar", err)
	}
	tgtJar, err := rdbms.ResolveDriverJar(raw.Databases.TGT.DriverJar)
	if err != nil {
		return Config{}, errs.NewConfigError("databases.tgt.driver_jar", err)
	}

	customs := make([]plan.CustomSQL, 0, len(raw.CheckScope.CustomSQLs))
	for _, c := range raw.CheckScope.CustomSQLs {
		if c.Name == "" {
			return Config{}, errs.NewConfigError("check_scope.custom_sqls[].name", fmt.Errorf("required"))
		}
		customs = append(customs, plan.CustomSQL{Label: c.Name, SQL: c.SQL})
	}

	return Config{
		SRC: rdbms.ConnParams{
			URL: raw.Databases.SRC.URL, User: raw.Databases.SRC.User,
			Password: raw.Databases.SRC.Password, DriverJar: srcJar,
		},
		TGT: rdbms.ConnParams{
			URL: raw.Databases.TGT.URL, User: raw.Databases.TGT.User,
			Password: raw.Databases.TGT.Password, DriverJar: tgtJar,
		},
		ThreadCount: threadCount,
		Scope: plan.Scope{
			SchemaMapping: raw.CheckScope.SchemaMapping,
			Schemas:       raw.CheckScope.Schemas,
			Tables:        raw.CheckScope.Tables,
			ExcludeTables: raw.CheckScope.ExcludeTables,
			CustomSQLs:    customs,
		},
	}, nil
}
