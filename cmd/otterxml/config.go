package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// setting is one configuration key otterxml understands. parse validates a
// command-line value and returns what is written to the config file.
type setting struct {
	key   string
	usage string
	parse func(string) (any, error)
}

var settings = []setting{
	{keyAuthor, "author written for genes that carry none", parseAuthor},
	{keyEmailDomain, "domain of the fallback author_email", parseEmailDomain},
	{keyStorePath, "DuckDB store file", parseStorePath},
	{keyWorkers, "parallel readers for bounds and load (0 = number of CPUs)", parseWorkers},
}

func lookupSetting(key string) (setting, error) {
	for _, s := range settings {
		if s.key == key {
			return s, nil
		}
	}
	names := make([]string, len(settings))
	for i, s := range settings {
		names[i] = s.key
	}
	return setting{}, usageError{fmt.Errorf("unknown key %q (known keys: %s)", key, strings.Join(names, ", "))}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage otterxml configuration",
		Long: `Show, get, or set configuration values. Config is stored in ~/` + configName + `.
Values can also come from OTTERXML_* environment variables, e.g. OTTERXML_RENDER_AUTHOR.`,
		Example: `  otterxml config                                  # show the config file
  otterxml config keys                             # list keys with effective values
  otterxml config set render.author jgrg            # author for genes without one
  otterxml config set render.email_domain ebi.ac.uk # fallback author_email domain
  otterxml config set store.path ~/otter.duckdb     # DuckDB store location
  otterxml config get workers                       # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigKeysCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Validate and store a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a configuration key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd.OutOrStdout(), args[0])
		},
	}
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List configuration keys with their effective values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigKeys(cmd.OutOrStdout())
		},
	}
}

func runConfigShow(w io.Writer) error {
	file := viper.ConfigFileUsed()
	if file == "" {
		fmt.Fprintf(w, "# No config file loaded. Default location: ~/%s\n", configName)
		return nil
	}

	// Defaults are listed by "config keys".
	values := make(map[string]any)
	for _, s := range settings {
		if viper.InConfig(s.key) {
			values[s.key] = viper.Get(s.key)
		}
	}
	fmt.Fprintf(w, "# %s\n", file)
	if len(values) == 0 {
		return nil
	}

	out, err := yaml.Marshal(nest(values))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func runConfigSet(w io.Writer, key, value string) error {
	s, err := lookupSetting(key)
	if err != nil {
		return err
	}
	v, err := s.parse(value)
	if err != nil {
		return usageError{fmt.Errorf("%s: %w", key, err)}
	}
	viper.Set(key, v)

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, configName)
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(w, "Set %s = %v in %s\n", key, v, cfgFile)
	return nil
}

func runConfigGet(w io.Writer, key string) error {
	if _, err := lookupSetting(key); err != nil {
		return err
	}
	v, err := effectiveValue(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, v)
	return nil
}

func runConfigKeys(w io.Writer) error {
	for _, s := range settings {
		v, err := effectiveValue(s.key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-20s %-30v %s\n", s.key, v, s.usage)
	}
	return nil
}

// effectiveValue is what commands will use for key, defaults included.
func effectiveValue(key string) (any, error) {
	switch key {
	case keyAuthor:
		if a := viper.GetString(keyAuthor); a != "" {
			return a, nil
		}
		return "(current user)", nil
	case keyStorePath:
		return storePath()
	case keyWorkers:
		return viper.GetInt(keyWorkers), nil
	}
	return viper.GetString(key), nil
}

// nest turns dotted keys into the nested maps the YAML file uses.
func nest(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any)
	for _, k := range keys {
		parts := strings.Split(k, ".")
		m := out
		for _, p := range parts[:len(parts)-1] {
			child, ok := m[p].(map[string]any)
			if !ok {
				child = make(map[string]any)
				m[p] = child
			}
			m = child
		}
		m[parts[len(parts)-1]] = flat[k]
	}
	return out
}

func parseAuthor(v string) (any, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, fmt.Errorf("author must not be empty")
	}
	if strings.ContainsFunc(v, unicode.IsSpace) || strings.Contains(v, "@") {
		return nil, fmt.Errorf("author %q must be a login name without spaces or '@'", v)
	}
	return v, nil
}

func parseEmailDomain(v string) (any, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	labels := strings.Split(v, ".")
	if len(labels) < 2 {
		return nil, fmt.Errorf("email domain %q needs at least one dot", v)
	}
	for _, l := range labels {
		if l == "" || strings.HasPrefix(l, "-") || strings.HasSuffix(l, "-") {
			return nil, fmt.Errorf("invalid email domain %q", v)
		}
		for _, r := range l {
			if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
				return nil, fmt.Errorf("invalid character %q in email domain %q", r, v)
			}
		}
	}
	return v, nil
}

func parseStorePath(v string) (any, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, fmt.Errorf("store path must not be empty")
	}
	if v == "~" || strings.HasPrefix(v, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		v = filepath.Join(home, strings.TrimPrefix(v, "~"))
	}
	abs, err := filepath.Abs(v)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", abs)
	}
	return abs, nil
}

func parseWorkers(v string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("workers must be a non-negative integer, got %q", v)
	}
	return n, nil
}
