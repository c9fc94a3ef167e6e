package config

type Config struct {
	Version     int      `yaml:"version"`
	Defaults    Defaults `yaml:"defaults"`
	Directories []string `yaml:"directories"`
}

type Defaults struct {
	Threads int    `yaml:"threads"`
	Remote  string `yaml:"remote"`
}

func DefaultConfig() Config {
	return Config{
		Version: 1,
		Defaults: Defaults{
			Threads: 4,
			Remote:  "origin",
		},
		Directories: []string{},
	}
}
