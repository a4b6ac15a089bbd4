// Package maxmind backs the geolocation contract with a MaxMind GeoLite2 country database.
package maxmind

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"sync/atomic"

	geoip2 "github.com/oschwald/geoip2-golang"

	"github.com/bidmesh/bidmesh/geolocation"
)

const Vendor = "maxmind"

const DatabaseFileName = "GeoLite2-Country.mmdb"

// GeoLocation implements the geolocation.GeoLocation interface. The reader is swapped
// atomically so the database can be refreshed while lookups are in flight.
type GeoLocation struct {
	reader atomic.Pointer[geoip2.Reader]
}

func (g *GeoLocation) Lookup(_ context.Context, ipAddress string) (*geolocation.GeoInfo, error) {
	ip := net.ParseIP(ipAddress)
	if len(ip) == 0 {
		return nil, geolocation.ErrLookupIPInvalid
	}

	reader := g.reader.Load()
	if reader == nil {
		return nil, geolocation.ErrDatabaseUnavailable
	}

	record, err := reader.Country(ip)
	if err != nil {
		return nil, err
	}

	return &geolocation.GeoInfo{
		Vendor:    Vendor,
		Continent: record.Continent.Code,
		Country:   record.Country.IsoCode,
	}, nil
}

// SetDataPath loads the country database from a GeoLite2 tar.gz archive and swaps it in.
func (g *GeoLocation) SetDataPath(filepath string) error {
	file, err := os.Open(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		// io.EOF means the archive did not contain the database file
		if err != nil {
			return errors.New("failed to read tar file: " + err.Error())
		}

		if header.Name == DatabaseFileName {
			buf := new(bytes.Buffer)
			if _, err := io.Copy(buf, tarReader); err != nil {
				return err
			}
			reader, err := geoip2.FromBytes(buf.Bytes())
			if err != nil {
				return err
			}
			g.reader.Store(reader)
			return nil
		}
	}
}
