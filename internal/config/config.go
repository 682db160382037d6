// Package config loads and structurally validates the autosac check list.
//
// The config file is an array of entries, each naming a registered check,
// its arguments, and whether it is enabled. Validation is structural only:
// whether the named check exists, or whether its arguments make sense, is
// decided later at invocation time.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Terminal config errors. All three abort the run before any check executes.
var (
	// ErrRead indicates the config file could not be opened or read.
	ErrRead = errors.New("config read error")
	// ErrParse indicates the config file is not valid JSON or YAML.
	ErrParse = errors.New("config parse error")
	// ErrSchema indicates an entry is missing a required field or has a
	// field of the wrong type.
	ErrSchema = errors.New("config schema error")
)

// CheckSpec is one parsed config entry: which check to run, with what
// arguments, and whether it is enabled. Immutable after loading.
type CheckSpec struct {
	Enabled bool
	Name    string
	F       string
	Args    []any
	Kwargs  map[string]any

	// Timeout bounds the check's execution when non-zero. Optional in the
	// config ("timeout" key, seconds); zero means the check may run forever.
	Timeout time.Duration
}

// rawSpec mirrors one config entry for decoding. Unknown keys are ignored.
type rawSpec struct {
	Enabled    bool           `mapstructure:"enabled"`
	Name       string         `mapstructure:"name"`
	F          string         `mapstructure:"f"`
	Args       []any          `mapstructure:"args"`
	Kwargs     map[string]any `mapstructure:"kwargs"`
	TimeoutSec float64        `mapstructure:"timeout"`
}

// Load reads the check list at path and returns one CheckSpec per entry,
// fields copied verbatim. It fails with ErrRead, ErrParse or ErrSchema;
// callers treat all three as terminal.
func Load(path string) ([]CheckSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	doc, err := parse(path, data)
	if err != nil {
		return nil, err
	}

	if errs := validateAgainstSchema(doc); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s: %s", ErrSchema, path, strings.Join(errs, "; "))
	}

	entries, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: top-level document is not an array", ErrSchema, path)
	}

	specs := make([]CheckSpec, 0, len(entries))
	for i, entry := range entries {
		var raw rawSpec
		if err := mapstructure.Decode(entry, &raw); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrSchema, i, err)
		}
		specs = append(specs, CheckSpec{
			Enabled: raw.Enabled,
			Name:    raw.Name,
			F:       raw.F,
			Args:    raw.Args,
			Kwargs:  raw.Kwargs,
			Timeout: time.Duration(raw.TimeoutSec * float64(time.Second)),
		})
	}

	return specs, nil
}

// parse decodes the raw config bytes into a generic document. YAML configs
// are accepted alongside JSON and validated against the same schema.
func parse(path string, data []byte) (any, error) {
	var doc any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
		}
		doc = convertToJSONCompatible(doc)
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
		}
	}
	return doc, nil
}
