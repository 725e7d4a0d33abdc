package cloudformation

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DomainName         string `yaml:"domainName"`
	HostedZoneName     string `yaml:"hostedZoneName"`
	CertificateArn     string `yaml:"certificateArn"`
	InstanceType       string `yaml:"instanceType"`
	MinCapacity        int    `yaml:"minCapacity"`
	MaxCapacity        int    `yaml:"maxCapacity"`
	DesiredCount       int    `yaml:"desiredCount"`
	ContainerPort      int    `yaml:"containerPort"`
	ContainerMemoryMiB int    `yaml:"containerMemoryMiB"`
	ImageDirectory     string `yaml:"imageDirectory"`
}

func DefaultConfig() Config {
	return Config{
		InstanceType:       "t3.micro",
		MinCapacity:        1,
		MaxCapacity:        3,
		DesiredCount:       1,
		ContainerPort:      3000,
		ContainerMemoryMiB: 512,
		ImageDirectory:     ".",
	}
}

// LoadConfig resolves deploy parameters in order of increasing
// precedence: defaults, the YAML file named by DEPLOY_CONFIG,
// environment variables.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("DEPLOY_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("os.ReadFile: %w", err)
		}
		if err = yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("yaml.Unmarshal: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	stringVars := map[string]*string{
		"DOMAIN_NAME":      &c.DomainName,
		"HOSTED_ZONE_NAME": &c.HostedZoneName,
		"CERTIFICATE_ARN":  &c.CertificateArn,
		"INSTANCE_TYPE":    &c.InstanceType,
	}
	for name, field := range stringVars {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	intVars := map[string]*int{
		"MIN_CAPACITY":         &c.MinCapacity,
		"MAX_CAPACITY":         &c.MaxCapacity,
		"DESIRED_COUNT":        &c.DesiredCount,
		"CONTAINER_MEMORY_MIB": &c.ContainerMemoryMiB,
	}
	for name, field := range intVars {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		*field = parsed
	}
	return nil
}

func (c Config) validate() error {
	if c.DomainName == "" {
		return fmt.Errorf("domain name is required")
	}
	if c.HostedZoneName == "" {
		return fmt.Errorf("hosted zone name is required")
	}
	if c.CertificateArn == "" {
		return fmt.Errorf("certificate ARN is required")
	}
	if c.MinCapacity > c.MaxCapacity {
		return fmt.Errorf("min capacity %d exceeds max capacity %d", c.MinCapacity, c.MaxCapacity)
	}
	return nil
}
