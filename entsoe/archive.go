package entsoe

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/matteodefelice/pypsa-entsoe/timeseries"
)

// ArchiveZones are the zones available in the published demand archive
// (doi:10.5281/zenodo.7182602).
var ArchiveZones = []string{"BE", "DE", "ES", "FR", "IT", "NL", "PL", "RO", "SE"}

const defaultArchiveURL = "https://zenodo.org/record/7182603/files"

// Archive fetches pre-extracted historical demand series from the public
// archive, caching one file per zone on disk so repeated runs stay offline.
type Archive struct {
	rest     *resty.Client
	cacheDir string
}

// NewArchive builds an archive accessor caching under cacheDir.
func NewArchive(cacheDir string) *Archive {
	rest := resty.New()
	rest.SetBaseURL(defaultArchiveURL)
	rest.SetTimeout(120 * time.Second)
	return &Archive{rest: rest, cacheDir: cacheDir}
}

// NewArchiveWithBaseURL builds an archive accessor against an alternate
// file host.
func NewArchiveWithBaseURL(cacheDir, baseURL string) *Archive {
	a := NewArchive(cacheDir)
	a.rest.SetBaseURL(baseURL)
	return a
}

func archiveAvailable(zone string) bool {
	for _, z := range ArchiveZones {
		if z == zone {
			return true
		}
	}
	return false
}

// Demand returns the archived demand series for a zone. A zone missing from
// the archive is not an error: it logs a warning and returns an empty
// series, so multi-zone assembly keeps going.
func (a *Archive) Demand(ctx context.Context, zone string) (timeseries.Series, error) {
	if !archiveAvailable(zone) {
		log.Printf("entsoe: zone %s not available in demand archive", zone)
		return timeseries.Series{}, nil
	}

	path, err := a.fetch(ctx, zone)
	if err != nil {
		return timeseries.Series{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return timeseries.Series{}, err
	}
	defer f.Close()
	return ParseArchiveDemand(f)
}

// fetch downloads the zone's archive file unless it is already cached,
// returning the local path.
func (a *Archive) fetch(ctx context.Context, zone string) (string, error) {
	name := fmt.Sprintf("%s_demand_20160101_20220901.csv", zone)
	path := filepath.Join(a.cacheDir, name)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(a.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("entsoe: cache dir: %w", err)
	}
	resp, err := a.rest.R().
		SetContext(ctx).
		SetQueryParam("download", "1").
		SetOutput(path).
		Get("/" + name)
	if err != nil {
		return "", fmt.Errorf("entsoe: archive fetch for %s: %w", zone, err)
	}
	if resp.StatusCode() != 200 {
		os.Remove(path)
		return "", fmt.Errorf("entsoe: archive returned status %d for %s", resp.StatusCode(), zone)
	}
	return path, nil
}

// ParseArchiveDemand reads an archive demand CSV of (timestamp, load)
// rows with a header line. Timestamps are RFC 3339.
func ParseArchiveDemand(r io.Reader) (timeseries.Series, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return timeseries.Series{}, fmt.Errorf("entsoe: archive csv: %w", err)
	}
	if len(records) == 0 {
		return timeseries.Series{}, fmt.Errorf("entsoe: archive csv is empty")
	}
	header := records[0]
	if len(header) < 2 {
		return timeseries.Series{}, fmt.Errorf("entsoe: archive csv needs (timestamp, load) columns, got %d", len(header))
	}

	points := make([]timeseries.Point, 0, len(records)-1)
	for i, rec := range records[1:] {
		ts, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return timeseries.Series{}, fmt.Errorf("entsoe: archive csv line %d: bad timestamp %q: %w", i+2, rec[0], err)
		}
		value, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return timeseries.Series{}, fmt.Errorf("entsoe: archive csv line %d: bad load %q: %w", i+2, rec[1], err)
		}
		points = append(points, timeseries.Point{Time: ts, Value: value})
	}
	return timeseries.New(points)
}
