package entsoe

import (
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"github.com/matteodefelice/pypsa-entsoe/timeseries"
)

// glMarketDocument is the GL_MarketDocument payload the transparency
// platform returns for load, generation, storage and capacity queries.
type glMarketDocument struct {
	XMLName xml.Name       `xml:"GL_MarketDocument"`
	Series  []glTimeSeries `xml:"TimeSeries"`
}

type glTimeSeries struct {
	PSRType string     `xml:"MktPSRType>psrType"`
	InZone  string     `xml:"inBiddingZone_Domain.mRID"`
	OutZone string     `xml:"outBiddingZone_Domain.mRID"`
	Periods []glPeriod `xml:"Period"`
}

type glPeriod struct {
	Start      string    `xml:"timeInterval>start"`
	Resolution string    `xml:"resolution"`
	Points     []glPoint `xml:"Point"`
}

type glPoint struct {
	Position int     `xml:"position"`
	Quantity float64 `xml:"quantity"`
}

// acknowledgement is the error document the API returns instead of data.
type acknowledgement struct {
	XMLName xml.Name `xml:"Acknowledgement_MarketDocument"`
	Reason  struct {
		Code string `xml:"code"`
		Text string `xml:"text"`
	} `xml:"Reason"`
}

// generationSide reports whether the time-series carries production
// (in-zone) rather than consumption (out-zone) quantities. Generation
// documents list both directions per production type.
func (ts glTimeSeries) generationSide() bool {
	return ts.InZone != ""
}

func decodeDocument(body []byte) (*glMarketDocument, error) {
	var ack acknowledgement
	if err := xml.Unmarshal(body, &ack); err == nil && ack.XMLName.Local != "" {
		return nil, fmt.Errorf("entsoe: request rejected: %s (code %s)", ack.Reason.Text, ack.Reason.Code)
	}
	var doc glMarketDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("entsoe: malformed response: %w", err)
	}
	return &doc, nil
}

// parseResolution maps the document's ISO 8601 durations to Go durations.
func parseResolution(res string) (time.Duration, error) {
	switch res {
	case "PT15M":
		return 15 * time.Minute, nil
	case "PT30M":
		return 30 * time.Minute, nil
	case "PT60M":
		return time.Hour, nil
	case "P1D":
		return 24 * time.Hour, nil
	case "P7D":
		return 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("entsoe: unsupported resolution %q", res)
	}
}

// collect flattens the document's periods into a series. The keep filter
// selects which time-series contribute; a nil filter keeps all. Duplicate
// timestamps across periods keep the first occurrence.
func (d *glMarketDocument) collect(keep func(glTimeSeries) bool) (timeseries.Series, error) {
	var points []timeseries.Point
	for _, ts := range d.Series {
		if keep != nil && !keep(ts) {
			continue
		}
		for _, period := range ts.Periods {
			start, err := time.Parse("2006-01-02T15:04Z", period.Start)
			if err != nil {
				return timeseries.Series{}, fmt.Errorf("entsoe: bad period start %q: %w", period.Start, err)
			}
			step, err := parseResolution(period.Resolution)
			if err != nil {
				return timeseries.Series{}, err
			}
			for _, p := range period.Points {
				// Positions are 1-based and may skip over gaps.
				points = append(points, timeseries.Point{
					Time:  start.Add(time.Duration(p.Position-1) * step),
					Value: p.Quantity,
				})
			}
		}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	deduped := points[:0]
	for _, p := range points {
		if len(deduped) > 0 && deduped[len(deduped)-1].Time.Equal(p.Time) {
			continue
		}
		deduped = append(deduped, p)
	}
	return timeseries.New(deduped)
}
