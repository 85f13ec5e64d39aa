package config

import (
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Load reads the configuration at the given path, layering it over the
// defaults. If the path does not exist, a default config file is written
// there first. Directories are loaded file-by-file in lexicographic order,
// each file applied over the last.
func Load(configPath string) (*MediaForgeConfig, error) {
	c := NewDefaultConfig()

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		fmt.Println("Generating new configuration...")
		configBytes, err := yaml.Marshal(c)
		if err != nil {
			return nil, err
		}
		if err = os.WriteFile(configPath, configBytes, 0644); err != nil {
			return nil, err
		}
		info, err = os.Stat(configPath)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	pathsOrdered := make([]string, 0)
	if info.IsDir() {
		logrus.Info("Config is a directory - loading all files over top of each other")

		files, err := os.ReadDir(configPath)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			pathsOrdered = append(pathsOrdered, path.Join(configPath, f.Name()))
		}
		sort.Strings(pathsOrdered)
	} else {
		pathsOrdered = append(pathsOrdered, configPath)
	}

	for _, p := range pathsOrdered {
		logrus.Info("Loading config file: ", p)
		buffer, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		if err = yaml.Unmarshal(buffer, &c); err != nil {
			return nil, err
		}
	}

	return &c, nil
}
