package util

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const Name = "burrow"
const ConfigFileName = "config.yaml"

//go:embed config_default.yaml
var embeddedConfig []byte

type AppConfig struct {
	Conf struct {
		Host            string
		HttpPort        int    `yaml:"httpPort"`
		SslDomain       string `yaml:"sslDomain"`
		Protocol        string `yaml:"protocol"`
		NodeDescription string `yaml:"nodeDescription"`
		WithFederation  bool   `yaml:"withFederation"`
		DatabasePath    string `yaml:"databasePath"`
	}
}

func ReadConf() (*AppConfig, error) {

	c := &AppConfig{}

	// Try to resolve config file path (local first, then user dir)
	configPath := ResolveFilePath(ConfigFileName)

	var buf []byte
	var err error

	buf, err = os.ReadFile(configPath)
	if err != nil {
		// If file doesn't exist, use embedded config and create user config file
		log.Printf("Config file not found at %s, using embedded defaults", configPath)
		buf = embeddedConfig

		configDir, dirErr := GetConfigDir()
		if dirErr == nil {
			userConfigPath := configDir + "/" + ConfigFileName
			writeErr := os.WriteFile(userConfigPath, embeddedConfig, 0644)
			if writeErr != nil {
				log.Printf("Warning: could not write default config to %s: %v", userConfigPath, writeErr)
			} else {
				log.Printf("Created default config file at %s", userConfigPath)
			}
		}
	}

	err = yaml.Unmarshal(buf, c)
	if err != nil {
		return nil, fmt.Errorf("in config file: %w", err)
	}

	envHost := os.Getenv("BURROW_HOST")
	envHttpPort := os.Getenv("BURROW_HTTPPORT")
	envSslDomain := os.Getenv("BURROW_SSLDOMAIN")
	envProtocol := os.Getenv("BURROW_PROTOCOL")
	envNodeDescription := os.Getenv("BURROW_NODE_DESCRIPTION")
	envWithFederation := os.Getenv("BURROW_WITH_FEDERATION")
	envDatabasePath := os.Getenv("BURROW_DATABASE_PATH")

	if envHost != "" {
		c.Conf.Host = envHost
	}

	if envHttpPort != "" {
		v, err := strconv.Atoi(envHttpPort)
		if err != nil {
			log.Printf("Error parsing BURROW_HTTPPORT: %v", err)
		}
		c.Conf.HttpPort = v
	}

	if envSslDomain != "" {
		c.Conf.SslDomain = envSslDomain
	}

	if envProtocol != "" {
		c.Conf.Protocol = envProtocol
	}

	if envNodeDescription != "" {
		c.Conf.NodeDescription = envNodeDescription
	}

	if envWithFederation == "true" {
		c.Conf.WithFederation = true
	}

	if envDatabasePath != "" {
		c.Conf.DatabasePath = envDatabasePath
	}

	// Only http and https make sense as federation protocols; anything else
	// in the config is a typo.
	switch c.Conf.Protocol {
	case "":
		c.Conf.Protocol = "https"
	case "http", "https":
	default:
		log.Printf("Unknown protocol %q in config, falling back to https", c.Conf.Protocol)
		c.Conf.Protocol = "https"
	}

	if c.Conf.DatabasePath == "" {
		c.Conf.DatabasePath = "database.db"
	}

	return c, nil
}
