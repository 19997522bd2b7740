package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/mpcalc/internal/errors"
)

// getEnvString returns the value of EnvPrefix+key, or defaultVal if unset.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// isFlagSet reports whether the flag was given on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny reports whether any of the aliases of a flag was given.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// override maps one setting to its flag names. The same table serves the
// environment (EnvPrefix + key) and the config file (fileKey of key).
type override struct {
	key   string
	flags []string
	apply func(*AppConfig, string) error
}

func uintSetting(dst func(*AppConfig) *uint) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return err
		}
		*dst(c) = uint(n)
		return nil
	}
}

func intSetting(dst func(*AppConfig) *int) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func stringSetting(dst func(*AppConfig) *string) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		*dst(c) = v
		return nil
	}
}

func boolSetting(dst func(*AppConfig) *bool) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		b, err := parseBool(v)
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}
}

var overrides = []override{
	{"PREC", []string{"prec", "p"}, uintSetting(func(c *AppConfig) *uint { return &c.Prec })},
	{"EMIN", []string{"emin"}, intSetting(func(c *AppConfig) *int { return &c.EMin })},
	{"EMAX", []string{"emax"}, intSetting(func(c *AppConfig) *int { return &c.EMax })},
	{"WORKERS", []string{"workers"}, intSetting(func(c *AppConfig) *int { return &c.Workers })},
	{"SEED", []string{"seed"}, func(c *AppConfig, v string) error {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return err
		}
		c.Seed = n
		return nil
	}},

	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Timeout = d
		return nil
	}},

	{"MODE", []string{"mode", "r"}, stringSetting(func(c *AppConfig) *string { return &c.Mode })},
	{"KERNEL", []string{"kernel"}, stringSetting(func(c *AppConfig) *string { return &c.Kernel })},
	{"POLICY", []string{"policy"}, stringSetting(func(c *AppConfig) *string { return &c.Policy })},
	{"FORMAT", []string{"format"}, stringSetting(func(c *AppConfig) *string { return &c.Format })},
	{"COMPARE", []string{"compare"}, stringSetting(func(c *AppConfig) *string { return &c.Compare })},
	{"METRICS_ADDR", []string{"metrics-addr"}, stringSetting(func(c *AppConfig) *string { return &c.MetricsAddr })},

	{"VERBOSE", []string{"v", "verbose"}, boolSetting(func(c *AppConfig) *bool { return &c.Verbose })},
	{"QUIET", []string{"q", "quiet"}, boolSetting(func(c *AppConfig) *bool { return &c.Quiet })},
	{"NO_COLOR", []string{"no-color"}, boolSetting(func(c *AppConfig) *bool { return &c.NoColor })},
}

// parseBool accepts true/1/yes and false/0/no in any case.
func parseBool(val string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, strconv.ErrSyntax
}

// applyEnvOverrides applies MPCALC_ variables to every setting whose flag
// was not given on the command line.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) error {
	for _, o := range overrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		val := os.Getenv(EnvPrefix + o.key)
		if val == "" {
			continue
		}
		if err := o.apply(config, val); err != nil {
			return apperrors.NewConfigError("invalid %s%s=%q: %v", EnvPrefix, o.key, val, err)
		}
	}
	return nil
}
