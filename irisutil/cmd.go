/*
Copyright © 2023 the Iris authors.
This file is part of Iris.

Iris is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Iris is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Iris.  If not, see <http://www.gnu.org/licenses/>.
*/

package irisutil

import (
	"context"
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stephenworsley/iris/cf"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the iris commands.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Dataset",
			usage: `
              Dataset is the path to the NetCDF dataset to be inspected.
              It can be a local path, an http(s):// URL, or a gs:// or
              s3:// blob address, and it can include environment variables.`,
			shorthand:  "d",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{describeCmd.Flags(), attrsCmd.Flags(), labelsCmd.Flags(), projCmd.Flags()},
		},
		{
			name: "CacheSize",
			usage: `
              CacheSize specifies the number of variable payloads to be held
              in the memory cache when reading a dataset. Larger numbers lead
              to faster repeated reads but greater memory use.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{describeCmd.Flags(), attrsCmd.Flags(), labelsCmd.Flags(), projCmd.Flags()},
		},
		{
			name: "filter",
			usage: `
              filter restricts the report to variables matching the given
              expression. The expression can use the parameters 'name',
              'ndim', and 'size', one boolean parameter per variable category
              ('data', 'coordinate', 'auxiliary', 'bounds', 'climatology',
              'cell_measure', 'grid_mapping', 'label', 'ancillary'), and the
              function 'has_attr(name)'. For example:
              --filter="data && has_attr('standard_name')".`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{describeCmd.Flags()},
		},
		{
			name: "ranks",
			usage: `
              ranks specifies a list of dimension counts to be included
              in the report, for example --ranks="1,2". An empty list
              includes all variables.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{describeCmd.Flags()},
		},
		{
			name: "Variables",
			usage: `
              Variables specifies which variables' attributes should be
              reported. An empty list reports every variable.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{attrsCmd.Flags()},
		},
		{
			name: "global",
			usage: `
              global specifies whether to report the dataset's global
              attributes instead of per-variable attributes.`,
			shorthand:  "g",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{attrsCmd.Flags()},
		},
		{
			name: "DataVariable",
			usage: `
              DataVariable is the data variable whose label variables should
              be reported. If it is empty, labels are reported for every
              data variable that has any.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{labelsCmd.Flags()},
		},
		{
			name: "mapping",
			usage: `
              mapping is the name of the grid mapping variable to be
              translated. If it is empty, every grid mapping variable in the
              dataset is translated.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{projCmd.Flags()},
		},
		{
			name: "check",
			usage: `
              check specifies whether to parse each translated projection
              string and fail if it is not usable.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{projCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("IRIS")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(describeCmd)
	Root.AddCommand(attrsCmd)
	Root.AddCommand(labelsCmd)
	Root.AddCommand(projCmd)
}

// outChan returns a channel printing to standard output.
func outChan() chan string {
	outChan := make(chan string)
	go func() {
		for {
			msg := <-outChan
			fmt.Printf(msg)
		}
	}()
	return outChan
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("iris: problem reading configuration file: %v", err)
		}
		return nil
	}
	if _, err := os.Stat("iris.toml"); err == nil {
		return ReadConfigFile(Cfg, "iris.toml")
	}
	return nil
}

// dataset returns the location of the dataset to be inspected,
// downloading it first if it is remote.
func dataset() (string, error) {
	d := os.ExpandEnv(Cfg.GetString("Dataset"))
	if d == "" {
		return "", fmt.Errorf(`you need to specify a dataset (for example: --Dataset="rotated_pole.nc")`)
	}
	return maybeDownload(context.TODO(), d, outChan()), nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "iris",
	Short: "A CF conventions metadata resolver.",
	Long: `Iris resolves the relationships encoded by the CF (Climate and
Forecast) metadata conventions in NetCDF datasets: it classifies each
variable into its conventional role, connects variables that refer to
each other, and reports what it found.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using
command-line arguments, or by setting environment variables in the format
'IRIS_var' where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of Iris.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Iris v%s\n", cf.Version)
	},
	DisableAutoGenTag: true,
}

// describeCmd is a command that reports the classification of every
// variable in a dataset.
var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe the variables of a dataset.",
	Long: `describe classifies the variables of the dataset according to the
CF metadata conventions and prints one report section per variable
category, followed by the dataset's global attributes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := dataset()
		if err != nil {
			return err
		}
		ranks, err := cast.ToIntSliceE(Cfg.GetStringSlice("ranks"))
		if err != nil {
			return fmt.Errorf("iris: reading describe 'ranks': %v", err)
		}
		return Describe(cmd.OutOrStdout(), d, Cfg.GetString("filter"), ranks, Cfg.GetInt("CacheSize"))
	},
	DisableAutoGenTag: true,
}

// attrsCmd is a command that reports variable or global attributes.
var attrsCmd = &cobra.Command{
	Use:   "attrs",
	Short: "Report the attributes of a dataset's variables.",
	Long: `attrs prints the attributes of the variables named by the
Variables option, of every variable if the option is empty, or of the
dataset itself when --global is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := dataset()
		if err != nil {
			return err
		}
		if Cfg.GetBool("global") {
			return GlobalAttrs(cmd.OutOrStdout(), d, Cfg.GetInt("CacheSize"))
		}
		return Attrs(cmd.OutOrStdout(), d, Cfg.GetStringSlice("Variables"), Cfg.GetInt("CacheSize"))
	},
	DisableAutoGenTag: true,
}

// labelsCmd is a command that reports the label variables attached to
// data variables.
var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Report label variables and their values.",
	Long: `labels prints, for each data variable, the label variables in its
group together with the dimensions they span relative to the data
variable and their decoded string values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := dataset()
		if err != nil {
			return err
		}
		return Labels(cmd.OutOrStdout(), d, Cfg.GetString("DataVariable"), Cfg.GetInt("CacheSize"))
	},
	DisableAutoGenTag: true,
}

// projCmd is a command that translates grid mapping variables into
// PROJ.4 strings.
var projCmd = &cobra.Command{
	Use:   "proj",
	Short: "Translate grid mappings to PROJ.4.",
	Long: `proj translates the attributes of the dataset's grid mapping
variables into PROJ.4 projection strings. With --check, each string is
parsed and the command fails if it is not usable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := dataset()
		if err != nil {
			return err
		}
		return Proj(cmd.OutOrStdout(), d, Cfg.GetString("mapping"), Cfg.GetBool("check"), Cfg.GetInt("CacheSize"))
	},
	DisableAutoGenTag: true,
}
