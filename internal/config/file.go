package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml"

	apperrors "github.com/agbru/mpcalc/internal/errors"
)

// fileConfig is the on-disk form of the settings a config file may hold.
type fileConfig struct {
	Prec    int    `toml:"prec" comment:"precision of results in bits (1-64)"`
	Mode    string `toml:"mode" comment:"RNDN, RNDZ, RNDU, RNDD or RNDA"`
	Kernel  string `toml:"kernel" comment:"auto or a kernel listed by -info"`
	EMin    int    `toml:"emin"`
	EMax    int    `toml:"emax"`
	Policy  string `toml:"policy" comment:"report or saturate"`
	Format  string `toml:"format" comment:"text or json"`
	Timeout string `toml:"timeout"`
	Workers int    `toml:"workers" comment:"0 picks a value from the CPU count"`
	Compare string `toml:"compare,omitempty"`
	Verbose bool   `toml:"verbose"`
	Quiet   bool   `toml:"quiet"`
	NoColor bool   `toml:"no-color"`
}

func buildFileConfig(cfg AppConfig) fileConfig {
	return fileConfig{
		Prec:    int(cfg.Prec),
		Mode:    cfg.Mode,
		Kernel:  cfg.Kernel,
		EMin:    cfg.EMin,
		EMax:    cfg.EMax,
		Policy:  cfg.Policy,
		Format:  cfg.Format,
		Timeout: cfg.Timeout.String(),
		Workers: cfg.Workers,
		Compare: cfg.Compare,
		Verbose: cfg.Verbose,
		Quiet:   cfg.Quiet,
		NoColor: cfg.NoColor,
	}
}

// DumpTOML renders the persistent settings of cfg as a config file.
func DumpTOML(cfg AppConfig) ([]byte, error) {
	data, err := toml.Marshal(buildFileConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return append([]byte("# mpcalc configuration\n\n"), data...), nil
}

// fileKey is the config file name of an override key: PREC -> prec,
// NO_COLOR -> no-color.
func fileKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", "-"))
}

// applyFileConfig loads path and applies its settings to every value whose
// flag was not given on the command line.
func applyFileConfig(cfg *AppConfig, fs *flag.FlagSet, path string) error {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return apperrors.NewConfigError("config file %s: %v", path, err)
	}
	byKey := make(map[string]override, len(overrides))
	for _, o := range overrides {
		byKey[fileKey(o.key)] = o
	}
	for _, key := range tree.Keys() {
		o, ok := byKey[key]
		if !ok {
			return apperrors.NewConfigError("config file %s: unknown setting %q", path, key)
		}
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		v := tree.Get(key)
		if _, nested := v.(*toml.Tree); nested {
			return apperrors.NewConfigError("config file %s: %q must be a value, not a table", path, key)
		}
		if err := o.apply(cfg, fmt.Sprint(v)); err != nil {
			return apperrors.NewConfigError("config file %s: invalid %s = %v: %v", path, key, v, err)
		}
	}
	return nil
}
