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
	"bufio"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
)

// ReadConfigFile reads and parses a TOML configuration file, installing
// its contents as configuration defaults: values given on the command
// line or through environment variables win over values from the file.
func ReadConfigFile(cfg *viper.Viper, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("the configuration file you have specified, %v, does not "+
			"appear to exist. Please check the file name and location and "+
			"try again", filename)
	}
	defer file.Close()
	reader := bufio.NewReader(file)
	bytes, err := ioutil.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("problem reading configuration file: %v", err)
	}

	config := make(map[string]interface{})
	if _, err := toml.Decode(string(bytes), &config); err != nil {
		return fmt.Errorf("there has been an error parsing the configuration file: %v", err)
	}
	for k, v := range config {
		cfg.SetDefault(k, v)
	}
	return nil
}
