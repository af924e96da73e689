// Package reanalysis fetches country-aggregated extracts of the C3S
// energy-derived reanalysis dataset. The service hands back zip archives of
// wide CSV files (one timestamp column, one column per country); this
// package downloads, unpacks and caches them, and parses single-country
// series out of the extracts. Timestamps in the extracts carry no zone
// information, so parsed series are naive.
package reanalysis

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/matteodefelice/pypsa-entsoe/timeseries"
)

// Request identifies one dataset extract.
type Request struct {
	Variable            string // e.g. "2m_air_temperature"
	SpatialAggregation  string // "country_level" or "maritime_country_level"
	TemporalAggregation string // "hourly" or "daily"
	ProductType         string // "capacity_factor_ratio" for derived products, empty otherwise
}

// Extracts requested by the reference dataset assembly.
var (
	Temperature  = Request{Variable: "2m_air_temperature", SpatialAggregation: "country_level", TemporalAggregation: "hourly"}
	Irradiance   = Request{Variable: "surface_downwelling_shortwave_radiation", SpatialAggregation: "country_level", TemporalAggregation: "hourly"}
	WindOnshore  = Request{Variable: "wind_power_generation_onshore", SpatialAggregation: "country_level", TemporalAggregation: "hourly", ProductType: "capacity_factor_ratio"}
	WindOffshore = Request{Variable: "wind_power_generation_offshore", SpatialAggregation: "maritime_country_level", TemporalAggregation: "hourly", ProductType: "capacity_factor_ratio"}
	HydroRivers  = Request{Variable: "hydro_power_generation_rivers", SpatialAggregation: "country_level", TemporalAggregation: "daily", ProductType: "capacity_factor_ratio"}
)

// Fetcher downloads and unpacks dataset extracts, caching them under one
// directory per variable. Fetch failures propagate unmodified; there is no
// retry logic.
type Fetcher struct {
	rest     *resty.Client
	cacheDir string
}

// NewFetcher builds a fetcher against the dataset endpoint.
func NewFetcher(baseURL, cacheDir string) *Fetcher {
	rest := resty.New()
	rest.SetBaseURL(baseURL)
	rest.SetTimeout(10 * time.Minute)
	return &Fetcher{rest: rest, cacheDir: cacheDir}
}

// Fetch downloads the zip for a request unless already cached, unpacks it,
// and returns the directory holding the extracted CSV files.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (string, error) {
	dir := filepath.Join(f.cacheDir, req.Variable)
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return dir, nil
	}

	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("reanalysis: cache dir: %w", err)
	}
	zipPath := filepath.Join(f.cacheDir, req.Variable+".zip")

	r := f.rest.R().
		SetContext(ctx).
		SetQueryParam("variable", req.Variable).
		SetQueryParam("spatial_aggregation", req.SpatialAggregation).
		SetQueryParam("temporal_aggregation", req.TemporalAggregation).
		SetQueryParam("format", "zip").
		SetOutput(zipPath)
	if req.ProductType != "" {
		r.SetQueryParam("energy_product_type", req.ProductType)
	}
	resp, err := r.Get("")
	if err != nil {
		return "", fmt.Errorf("reanalysis: fetch %s: %w", req.Variable, err)
	}
	if resp.StatusCode() != 200 {
		os.Remove(zipPath)
		return "", fmt.Errorf("reanalysis: fetch %s: status %d", req.Variable, resp.StatusCode())
	}

	if err := unpack(zipPath, dir); err != nil {
		return "", err
	}
	os.Remove(zipPath)
	return dir, nil
}

// unpack extracts a downloaded archive into dir. Entry names are flattened;
// the extracts contain no directory structure worth keeping.
func unpack(zipPath, dir string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("reanalysis: open archive: %w", err)
	}
	defer zr.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, file := range zr.File {
		if file.FileInfo().IsDir() {
			continue
		}
		if err := extractFile(file, filepath.Join(dir, filepath.Base(file.Name))); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(file *zip.File, dest string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("reanalysis: archive entry %s: %w", file.Name, err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("reanalysis: extract %s: %w", file.Name, err)
	}
	return nil
}

// ParseCountrySeries reads one country's column out of a wide extract CSV.
// The first column holds timestamps ("2006-01-02 15:04:05" or a bare date
// for daily products), the header names each country column.
func ParseCountrySeries(r io.Reader, country string) (timeseries.Series, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return timeseries.Series{}, fmt.Errorf("reanalysis: extract header: %w", err)
	}
	col := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), country) {
			col = i
			break
		}
	}
	if col < 1 {
		return timeseries.Series{}, fmt.Errorf("reanalysis: country %q not in extract", country)
	}

	var points []timeseries.Point
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return timeseries.Series{}, fmt.Errorf("reanalysis: extract line %d: %w", line, err)
		}
		ts, err := parseNaiveTime(rec[0])
		if err != nil {
			return timeseries.Series{}, fmt.Errorf("reanalysis: extract line %d: %w", line, err)
		}
		value, err := strconv.ParseFloat(rec[col], 64)
		if err != nil {
			return timeseries.Series{}, fmt.Errorf("reanalysis: extract line %d: bad value %q: %w", line, rec[col], err)
		}
		points = append(points, timeseries.Point{Time: ts, Value: value})
	}
	return timeseries.NewNaive(points)
}

func parseNaiveTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", s)
}
