package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/naoina/toml"
)

// fileConfig is the on-disk shape of settings.toml, grounded on the
// teacher's sample driver's OurSettings (github.com/naoina/toml is the
// same library the teacher's bundled CLI used for config parsing).
type fileConfig struct {
	ListenAddr     string `toml:"listen_addr"`
	AdvertisedAddr string `toml:"advertised_addr"`
	Root           string `toml:"root"`
	FileBufSize    int    `toml:"file_buf_size"`
}

func defaultConfig() fileConfig {
	return fileConfig{
		ListenAddr: "0.0.0.0:2121",
		Root:       ".",
	}
}

func loadConfig(path string) (fileConfig, error) {
	cfg := defaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return cfg, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf, err := ioutil.ReadAll(f)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	if err := toml.Unmarshal(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

func writeDefaultConfig(path string) error {
	buf, err := toml.Marshal(defaultConfig())
	if err != nil {
		return err
	}

	return ioutil.WriteFile(path, buf, 0o644)
}
