package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	dir := t.TempDir()
	secrets := map[string]string{
		SecretAnthropicKey: "sk-ant-test",
		SecretOpenAIKey:    "sk-test",
	}

	require.NoError(t, EncryptSecretsFile(dir, "hunter2", secrets))
	require.True(t, SecretsFileExists(dir))

	got, err := DecryptSecretsFile(dir, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, secrets, got)

	info, err := os.Stat(filepath.Join(dir, configDirName, secretsFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestDecryptWrongPassword(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, EncryptSecretsFile(dir, "correct", map[string]string{"K": "v"}))

	_, err := DecryptSecretsFile(dir, "incorrect")
	assert.Error(t, err)
}

func TestDecryptTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, configDirName), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, configDirName, secretsFileName), []byte("short"), 0o600))

	_, err := DecryptSecretsFile(dir, "any")
	assert.ErrorContains(t, err, "corrupted")
}

func TestGetSecretPrecedence(t *testing.T) {
	t.Cleanup(func() { SetDecryptedSecrets(nil) })

	t.Setenv("RUDDER_TEST_SECRET", "from-env")
	got, err := GetSecret("RUDDER_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	SetDecryptedSecrets(map[string]string{"RUDDER_TEST_SECRET": "from-file"})
	got, err = GetSecret("RUDDER_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "from-file", got)

	_, err = GetSecret("RUDDER_TEST_MISSING")
	assert.Error(t, err)
}
