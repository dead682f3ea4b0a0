package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	os.Unsetenv("STORE_DRIVER")

	c, found, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, StoreDriverPostgres, c.StoreDriver)
	assert.Equal(t, "https://dummyjson.com", c.AuthBaseURL)
	assert.Equal(t, []string{"*"}, c.CORSOrigins)
	assert.False(t, c.PersistSharedNames)
	assert.False(t, c.IsProduction())
}

func TestLoadReadsEnvFile(t *testing.T) {
	for _, k := range []string{"STORE_DRIVER", "MONGO_DB_URI", "PERSIST_SHARED_NAMES", "AWS_S3_BUCKET"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	path := filepath.Join(t.TempDir(), ".env")
	contents := "STORE_DRIVER=mongo\nMONGO_DB_URI=mongodb://db:27017\nPERSIST_SHARED_NAMES=true\nAWS_S3_BUCKET=receipts\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	c, found, err := Load(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, StoreDriverMongo, c.StoreDriver)
	assert.Equal(t, "mongodb://db:27017", c.Mongo.URI)
	assert.True(t, c.PersistSharedNames)
	assert.Equal(t, "receipts", c.Storage.Bucket)
}
