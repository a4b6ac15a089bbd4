package maxmind

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidmesh/bidmesh/geolocation"
)

func TestLookupInvalidIP(t *testing.T) {
	geo := &GeoLocation{}

	for _, ip := range []string{"", "not-an-ip", "999.0.0.1"} {
		info, err := geo.Lookup(context.Background(), ip)

		assert.ErrorIs(t, err, geolocation.ErrLookupIPInvalid, "ip %q", ip)
		assert.Nil(t, info, "ip %q", ip)
	}
}

func TestLookupWithoutDatabase(t *testing.T) {
	geo := &GeoLocation{}

	info, err := geo.Lookup(context.Background(), "8.8.8.8")

	assert.ErrorIs(t, err, geolocation.ErrDatabaseUnavailable)
	assert.Nil(t, info)
}

func TestSetDataPathMissingFile(t *testing.T) {
	geo := &GeoLocation{}

	err := geo.SetDataPath(filepath.Join(t.TempDir(), "missing.tar.gz"))

	assert.Error(t, err)
}

func TestSetDataPathNotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("not a gzip archive"), 0o600))
	geo := &GeoLocation{}

	err := geo.SetDataPath(path)

	assert.Error(t, err)
}

func TestSetDataPathArchiveWithoutDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodb.tar.gz")
	file, err := os.Create(path)
	require.NoError(t, err)

	gzipWriter := gzip.NewWriter(file)
	tarWriter := tar.NewWriter(gzipWriter)
	content := []byte("README")
	require.NoError(t, tarWriter.WriteHeader(&tar.Header{Name: "README.txt", Mode: 0o600, Size: int64(len(content))}))
	_, err = tarWriter.Write(content)
	require.NoError(t, err)
	require.NoError(t, tarWriter.Close())
	require.NoError(t, gzipWriter.Close())
	require.NoError(t, file.Close())

	geo := &GeoLocation{}
	err = geo.SetDataPath(path)

	assert.Error(t, err)
}
