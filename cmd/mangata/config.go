package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/mangata/asciidoc"
)

const defaultConfigFile = ".mangata.yaml"

// config layers flags over MANGATA_* environment variables over the
// config file.
type config struct {
	v *viper.Viper
}

func newConfig() *config {
	v := viper.New()
	v.SetEnvPrefix("MANGATA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &config{v: v}
}

func (c *config) bind(flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		_ = c.v.BindPFlag(name, flags.Lookup(name))
	}
}

// load reads the config file. A missing default file is not an error.
func (c *config) load() error {
	path := c.v.GetString("config")
	if path == "" {
		return nil
	}
	c.v.SetConfigFile(path)
	if err := c.v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == defaultConfigFile {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	log.Infof("using config file %s", c.v.ConfigFileUsed())
	return nil
}

// parseOptions collects the parser options shared by every command that
// parses documents. Preset attributes come from the config file's
// attributes table, then the attributes file, then -a flags.
func (c *config) parseOptions() ([]asciidoc.Option, error) {
	attrs := map[string]string{}
	for name, value := range c.v.GetStringMapString("attributes") {
		attrs[name] = value
	}

	if path := c.v.GetString("attributes-file"); path != "" {
		fromFile, err := loadAttributesFile(path)
		if err != nil {
			return nil, err
		}
		for name, value := range fromFile {
			attrs[name] = value
		}
	}

	for _, pair := range c.v.GetStringSlice("attribute") {
		name, value, err := parseAttributeFlag(pair)
		if err != nil {
			return nil, err
		}
		attrs[name] = value
	}

	var opts []asciidoc.Option
	if len(attrs) > 0 {
		opts = append(opts, asciidoc.WithAttributes(attrs))
	}
	if depth := c.v.GetInt("max-depth"); depth > 0 {
		opts = append(opts, asciidoc.WithMaxDepth(depth))
	}
	return opts, nil
}

// loadAttributesFile decodes a flat table of attribute names to values from
// a TOML or YAML file, chosen by extension.
func loadAttributesFile(path string) (map[string]string, error) {
	attrs := map[string]string{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &attrs); err != nil {
			return nil, fmt.Errorf("decode attributes file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read attributes file: %w", err)
		}
		if err := yaml.Unmarshal(data, &attrs); err != nil {
			return nil, fmt.Errorf("decode attributes file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("attributes file %s: unsupported extension (want .toml, .yaml or .yml)", path)
	}
	return attrs, nil
}

// parseAttributeFlag splits name=value. A bare name sets the attribute to
// the empty string.
func parseAttributeFlag(s string) (string, string, error) {
	name, value, _ := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("invalid attribute %q: missing name", s)
	}
	return name, value, nil
}
