package cloudformation_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichko/fleetboard/internal/pkg/cloudformation"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DOMAIN_NAME", "app.example.com")
	t.Setenv("HOSTED_ZONE_NAME", "example.com")
	t.Setenv("CERTIFICATE_ARN", testCertificateArn)
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := cloudformation.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "t3.micro", cfg.InstanceType)
	assert.Equal(t, 1, cfg.MinCapacity)
	assert.Equal(t, 3, cfg.MaxCapacity)
	assert.Equal(t, 3000, cfg.ContainerPort)
	assert.Equal(t, ".", cfg.ImageDirectory)
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "deploy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("instanceType: t3.small\nmaxCapacity: 5\n"), 0o600))
	t.Setenv("DEPLOY_CONFIG", path)

	cfg, err := cloudformation.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "t3.small", cfg.InstanceType)
	assert.Equal(t, 5, cfg.MaxCapacity)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "deploy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("instanceType: t3.small\n"), 0o600))
	t.Setenv("DEPLOY_CONFIG", path)
	t.Setenv("INSTANCE_TYPE", "m5.large")
	t.Setenv("MIN_CAPACITY", "2")

	cfg, err := cloudformation.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "m5.large", cfg.InstanceType)
	assert.Equal(t, 2, cfg.MinCapacity)
}

func TestLoadConfigContainerMemoryFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONTAINER_MEMORY_MIB", "1024")

	cfg, err := cloudformation.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.ContainerMemoryMiB)
}

func TestLoadConfigRequiresCertificate(t *testing.T) {
	t.Setenv("DOMAIN_NAME", "app.example.com")
	t.Setenv("HOSTED_ZONE_NAME", "example.com")
	t.Setenv("CERTIFICATE_ARN", "")

	_, err := cloudformation.LoadConfig()
	assert.ErrorContains(t, err, "certificate ARN")
}

func TestLoadConfigRejectsBadCapacity(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MIN_CAPACITY", "4")
	t.Setenv("MAX_CAPACITY", "2")

	_, err := cloudformation.LoadConfig()
	assert.ErrorContains(t, err, "min capacity")
}

func TestLoadConfigRejectsUnparsableInt(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DESIRED_COUNT", "many")

	_, err := cloudformation.LoadConfig()
	assert.ErrorContains(t, err, "DESIRED_COUNT")
}
