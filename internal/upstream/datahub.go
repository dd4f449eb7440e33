package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"meteogram/internal/types"
)

// timeFormat is the timestamp layout used by the DataHub time series.
const timeFormat = "2006-01-02T15:04Z"

// knotsPerMS converts wind speeds from m/s (as reported) to knots
// (as displayed).
const knotsPerMS = 1.944

// PayloadCache stores raw upstream payloads between runs so repeated
// renders within the freshness window spare the metered API.
type PayloadCache interface {
	// Load returns the cached payload for key if present and fresh.
	Load(key string) ([]byte, bool)
	// Store persists the payload for key.
	Store(key string, payload []byte) error
}

// nopCache satisfies PayloadCache when caching is disabled.
type nopCache struct{}

func (nopCache) Load(string) ([]byte, bool) { return nil, false }
func (nopCache) Store(string, []byte) error { return nil }

// DataHub fetches point forecasts from the Met Office DataHub API.
type DataHub struct {
	client       *Client
	baseURL      string
	clientKey    types.SecretString
	clientSecret types.SecretString
	cache        PayloadCache
	logger       *slog.Logger
}

// NewDataHub creates a DataHub provider. cache may be nil to disable
// payload caching.
func NewDataHub(client *Client, baseURL string, key, secret types.SecretString, cache PayloadCache, logger *slog.Logger) *DataHub {
	if cache == nil {
		cache = nopCache{}
	}
	return &DataHub{
		client:       client,
		baseURL:      baseURL,
		clientKey:    key,
		clientSecret: secret,
		cache:        cache,
		logger:       logger,
	}
}

// Hourly fetches the hourly point forecast (roughly the next 48 hours).
func (d *DataHub) Hourly(ctx context.Context, loc types.Location) ([]types.Sample, error) {
	return d.fetch(ctx, "hourly", loc, types.ResolutionHourly)
}

// ThreeHourly fetches the three-hourly point forecast (roughly the next
// seven days).
func (d *DataHub) ThreeHourly(ctx context.Context, loc types.Location) ([]types.Sample, error) {
	return d.fetch(ctx, "three-hourly", loc, types.ResolutionThreeHourly)
}

func (d *DataHub) fetch(ctx context.Context, endpoint string, loc types.Location, res types.Resolution) ([]types.Sample, error) {
	cacheKey := fmt.Sprintf("%s_%.4f_%.4f", endpoint, loc.Latitude, loc.Longitude)
	if payload, ok := d.cache.Load(cacheKey); ok {
		samples, err := decodePointForecast(payload, res)
		if err == nil {
			d.logger.Debug("serving forecast from cache", "endpoint", endpoint)
			return samples, nil
		}
		d.logger.Warn("discarding undecodable cached payload", "endpoint", endpoint, "error", err)
	}

	payload, err := d.query(ctx, endpoint, loc)
	if err != nil {
		return nil, err
	}
	if err := d.cache.Store(cacheKey, payload); err != nil {
		// Cache trouble must never fail a fetch that already succeeded.
		d.logger.Warn("storing forecast cache payload", "endpoint", endpoint, "error", err)
	}
	return decodePointForecast(payload, res)
}

func (d *DataHub) query(ctx context.Context, endpoint string, loc types.Location) ([]byte, error) {
	u := fmt.Sprintf("%s/forecasts/point/%s?latitude=%s&longitude=%s&includeLocationName=true",
		d.baseURL, endpoint,
		url.QueryEscape(fmt.Sprintf("%g", loc.Latitude)),
		url.QueryEscape(fmt.Sprintf("%g", loc.Longitude)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "building forecast request", err)
	}
	req.Header.Set("X-IBM-Client-Id", d.clientKey.Value())
	req.Header.Set("X-IBM-Client-Secret", d.clientSecret.Value())
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamForecast,
			"fetching "+endpoint+" forecast", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, types.NewAppError(types.ErrCodeUpstreamForecast,
			fmt.Sprintf("%s forecast returned %s", endpoint, resp.Status), nil)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamForecast,
			"reading forecast response", err)
	}
	return payload, nil
}

// pointForecast mirrors the GeoJSON feature collection returned by the
// point endpoints. Only the fields the pipeline consumes are declared.
type pointForecast struct {
	Features []struct {
		Properties struct {
			ModelRunDate string     `json:"modelRunDate"`
			TimeSeries   []timeStep `json:"timeSeries"`
			Location     struct {
				Name string `json:"name"`
			} `json:"location"`
		} `json:"properties"`
	} `json:"features"`
}

// timeStep is one entry of the upstream time series. Hourly and
// three-hourly responses populate different subsets; every field is
// optional.
type timeStep struct {
	Time                   string   `json:"time"`
	ScreenTemperature      *float64 `json:"screenTemperature"`
	MinScreenAirTemp       *float64 `json:"minScreenAirTemp"`
	MaxScreenAirTemp       *float64 `json:"maxScreenAirTemp"`
	FeelsLikeTemp          *float64 `json:"feelsLikeTemp"`
	FeelsLikeTemperature   *float64 `json:"feelsLikeTemperature"`
	WindSpeed10m           *float64 `json:"windSpeed10m"`
	WindGustSpeed10m       *float64 `json:"windGustSpeed10m"`
	Max10mWindGust         *float64 `json:"max10mWindGust"`
	ScreenRelativeHumidity *float64 `json:"screenRelativeHumidity"`
	ProbOfPrecipitation    *float64 `json:"probOfPrecipitation"`
	PrecipitationRate      *float64 `json:"precipitationRate"`
	TotalPrecipAmount      *float64 `json:"totalPrecipAmount"`
	ProbOfSferics          *float64 `json:"probOfSferics"`
	SignificantWeatherCode *int     `json:"significantWeatherCode"`
}

// decodePointForecast converts an upstream payload into Samples tagged with
// the given resolution. Unknown time steps are skipped rather than failing
// the whole payload.
func decodePointForecast(payload []byte, res types.Resolution) ([]types.Sample, error) {
	var doc pointForecast
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamForecast,
			"decoding forecast payload", err)
	}
	if len(doc.Features) == 0 {
		return nil, types.NewAppError(types.ErrCodeUpstreamForecast,
			"forecast payload has no features", nil)
	}

	steps := doc.Features[0].Properties.TimeSeries
	samples := make([]types.Sample, 0, len(steps))
	for _, step := range steps {
		ts, err := time.Parse(timeFormat, step.Time)
		if err != nil {
			continue
		}
		samples = append(samples, step.toSample(ts, res))
	}
	return samples, nil
}

// toSample maps a raw time step onto the domain Sample, abstracting away
// the differences between the hourly and three-hourly field sets.
func (t timeStep) toSample(ts time.Time, res types.Resolution) types.Sample {
	s := types.Sample{
		Time:        ts.UTC(),
		Resolution:  res,
		WeatherCode: t.SignificantWeatherCode,
	}

	switch {
	case t.ScreenTemperature != nil:
		s.TemperatureC = t.ScreenTemperature
	case t.MinScreenAirTemp != nil && t.MaxScreenAirTemp != nil:
		// The three-hourly feed reports a min/max pair instead of a spot
		// temperature.
		s.TemperatureC = types.Float64((*t.MinScreenAirTemp + *t.MaxScreenAirTemp) / 2)
	}

	if t.FeelsLikeTemp != nil {
		s.FeelsLikeC = t.FeelsLikeTemp
	} else if t.FeelsLikeTemperature != nil {
		s.FeelsLikeC = t.FeelsLikeTemperature
	}

	s.WindSpeedKnots = scale(t.WindSpeed10m, knotsPerMS)
	if t.WindGustSpeed10m != nil {
		s.WindGustKnots = scale(t.WindGustSpeed10m, knotsPerMS)
	} else {
		s.WindGustKnots = scale(t.Max10mWindGust, knotsPerMS)
	}

	s.HumidityPercent = t.ScreenRelativeHumidity
	s.PrecipProbability = t.ProbOfPrecipitation
	s.ThunderProbability = t.ProbOfSferics

	if t.TotalPrecipAmount != nil {
		s.PrecipAmountMM = t.TotalPrecipAmount
	} else {
		s.PrecipAmountMM = t.PrecipitationRate
	}
	return s
}

// scale multiplies an optional value by a conversion factor.
func scale(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	return types.Float64(*v * factor)
}
