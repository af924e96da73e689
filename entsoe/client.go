// Package entsoe is a thin client for the ENTSO-E transparency platform
// REST API, returning the time-series shapes the transforms in this module
// consume. It fetches and decodes only; no retries, no caching — transient
// failures propagate to the caller unmodified.
package entsoe

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/matteodefelice/pypsa-entsoe/hydro"
	"github.com/matteodefelice/pypsa-entsoe/timeseries"
)

const defaultBaseURL = "https://web-api.tp.entsoe.eu/api"

// periodFormat is the yyyyMMddHHmm timestamp format the API expects.
const periodFormat = "200601021504"

// Client queries the transparency platform. An API key (security token)
// is required; see the platform's registration documentation.
type Client struct {
	key  string
	rest *resty.Client
}

// New builds a client with the given API key.
func New(apiKey string) *Client {
	rest := resty.New()
	rest.SetBaseURL(defaultBaseURL)
	rest.SetTimeout(60 * time.Second)
	return &Client{key: apiKey, rest: rest}
}

// NewWithBaseURL builds a client against an alternate endpoint.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.rest.SetBaseURL(baseURL)
	return c
}

func (c *Client) get(ctx context.Context, params map[string]string, r timeseries.TimeRange) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	req := c.rest.R().
		SetContext(ctx).
		SetQueryParam("securityToken", c.key).
		SetQueryParam("periodStart", r.Start.UTC().Format(periodFormat)).
		SetQueryParam("periodEnd", r.End.UTC().Format(periodFormat))
	for k, v := range params {
		req.SetQueryParam(k, v)
	}

	resp, err := req.Get("")
	if err != nil {
		return nil, fmt.Errorf("entsoe: request failed: %w", err)
	}
	// The API reports request errors as 400 with an acknowledgement
	// document; surface its reason rather than the bare status.
	if resp.StatusCode() != 200 && resp.StatusCode() != 400 {
		return nil, fmt.Errorf("entsoe: API returned status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// Load returns the total load series for a zone, filtered to top-of-hour
// observations.
func (c *Client) Load(ctx context.Context, zone string, r timeseries.TimeRange) (timeseries.Series, error) {
	domain, err := domainFor(zone)
	if err != nil {
		return timeseries.Series{}, err
	}
	body, err := c.get(ctx, map[string]string{
		"documentType":          "A65", // system total load
		"processType":           "A16", // realised
		"outBiddingZone_Domain": domain,
	}, r)
	if err != nil {
		return timeseries.Series{}, err
	}
	doc, err := decodeDocument(body)
	if err != nil {
		return timeseries.Series{}, err
	}
	load, err := doc.collect(nil)
	if err != nil {
		return timeseries.Series{}, err
	}
	return load.TopOfHour(), nil
}

// Generation returns actual aggregated generation for one production type
// (PSR code, e.g. PSRHydroReservoir), filtered to top-of-hour observations.
// Consumption-side series in the document are discarded.
func (c *Client) Generation(ctx context.Context, zone, psrType string, r timeseries.TimeRange) (timeseries.Series, error) {
	domain, err := domainFor(zone)
	if err != nil {
		return timeseries.Series{}, err
	}
	body, err := c.get(ctx, map[string]string{
		"documentType": "A75", // actual generation per type
		"processType":  "A16",
		"in_Domain":    domain,
		"psrType":      psrType,
	}, r)
	if err != nil {
		return timeseries.Series{}, err
	}
	doc, err := decodeDocument(body)
	if err != nil {
		return timeseries.Series{}, err
	}
	gen, err := doc.collect(glTimeSeries.generationSide)
	if err != nil {
		return timeseries.Series{}, err
	}
	return gen.TopOfHour(), nil
}

// ReservoirStorage returns the aggregated filling level of water reservoirs
// and hydro storage plants, reported weekly.
func (c *Client) ReservoirStorage(ctx context.Context, zone string, r timeseries.TimeRange) (timeseries.Series, error) {
	domain, err := domainFor(zone)
	if err != nil {
		return timeseries.Series{}, err
	}
	body, err := c.get(ctx, map[string]string{
		"documentType": "A72", // reservoir filling information
		"processType":  "A16",
		"in_Domain":    domain,
	}, r)
	if err != nil {
		return timeseries.Series{}, err
	}
	doc, err := decodeDocument(body)
	if err != nil {
		return timeseries.Series{}, err
	}
	return doc.collect(nil)
}

// InstalledCapacity returns the installed capacity (MW) per production-type
// name for one year.
func (c *Client) InstalledCapacity(ctx context.Context, zone string, year int) (map[string]float64, error) {
	domain, err := domainFor(zone)
	if err != nil {
		return nil, err
	}
	r := timeseries.TimeRange{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	body, err := c.get(ctx, map[string]string{
		"documentType": "A68", // installed generation capacity per type
		"processType":  "A33", // year ahead
		"in_Domain":    domain,
	}, r)
	if err != nil {
		return nil, err
	}
	doc, err := decodeDocument(body)
	if err != nil {
		return nil, err
	}

	capacity := make(map[string]float64, len(doc.Series))
	for _, ts := range doc.Series {
		for _, period := range ts.Periods {
			for _, p := range period.Points {
				capacity[PSRName(ts.PSRType)] += p.Quantity
			}
		}
	}
	return capacity, nil
}

// Inflow reconstructs the weekly hydropower inflow ledger for a zone from
// reservoir generation and storage levels over the query range.
func (c *Client) Inflow(ctx context.Context, zone string, r timeseries.TimeRange) (hydro.Ledger, error) {
	gen, err := c.Generation(ctx, zone, PSRHydroReservoir, r)
	if err != nil {
		return nil, fmt.Errorf("entsoe: inflow generation query: %w", err)
	}
	sto, err := c.ReservoirStorage(ctx, zone, r)
	if err != nil {
		return nil, fmt.Errorf("entsoe: inflow storage query: %w", err)
	}
	return hydro.ReconstructInflow(gen, sto)
}
