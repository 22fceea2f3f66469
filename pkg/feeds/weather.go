package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// wttr.in's j1 format returns the full forecast JSON document.
const weatherURL = "https://wttr.in/%s?format=j1"

// ErrNoWeather is returned when wttr.in responds without a current
// condition block.
var ErrNoWeather = errors.New("feeds: no weather data")

// Weather is the current-condition snapshot a weather widget renders.
type Weather struct {
	Location    string
	Description string
	TempC       int
	TempF       int
	FeelsLikeC  int
	FeelsLikeF  int
	Humidity    int
	WindKmph    int
}

// Temp returns the temperature in the requested unit type, "imperial"
// selecting Fahrenheit and anything else Celsius.
func (w Weather) Temp(unitType string) (value int, unit string) {
	if unitType == "imperial" {
		return w.TempF, "°F"
	}
	return w.TempC, "°C"
}

// FetchWeather fetches current conditions for a location. An empty
// location asks wttr.in to geolocate the caller by IP.
func (c *Client) FetchWeather(ctx context.Context, location string) (Weather, error) {
	body, err := c.get(ctx, fmt.Sprintf(weatherURL, url.PathEscape(location)))
	if err != nil {
		return Weather{}, err
	}
	return ParseWeatherJSON(body)
}

// wttr.in encodes every numeric field as a string.
type wttrDocument struct {
	CurrentCondition []struct {
		TempC       string `json:"temp_C"`
		TempF       string `json:"temp_F"`
		FeelsLikeC  string `json:"FeelsLikeC"`
		FeelsLikeF  string `json:"FeelsLikeF"`
		Humidity    string `json:"humidity"`
		WindKmph    string `json:"windspeedKmph"`
		WeatherDesc []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
	} `json:"current_condition"`
	NearestArea []struct {
		AreaName []struct {
			Value string `json:"value"`
		} `json:"areaName"`
	} `json:"nearest_area"`
}

// ParseWeatherJSON parses a wttr.in j1 document into a Weather snapshot.
func ParseWeatherJSON(data []byte) (Weather, error) {
	var doc wttrDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Weather{}, fmt.Errorf("feeds: parse weather: %w", err)
	}
	if len(doc.CurrentCondition) == 0 {
		return Weather{}, ErrNoWeather
	}

	cur := doc.CurrentCondition[0]
	w := Weather{
		TempC:      atoiLoose(cur.TempC),
		TempF:      atoiLoose(cur.TempF),
		FeelsLikeC: atoiLoose(cur.FeelsLikeC),
		FeelsLikeF: atoiLoose(cur.FeelsLikeF),
		Humidity:   atoiLoose(cur.Humidity),
		WindKmph:   atoiLoose(cur.WindKmph),
	}
	if len(cur.WeatherDesc) > 0 {
		w.Description = cur.WeatherDesc[0].Value
	}
	if len(doc.NearestArea) > 0 && len(doc.NearestArea[0].AreaName) > 0 {
		w.Location = doc.NearestArea[0].AreaName[0].Value
	}
	return w, nil
}

// atoiLoose parses wttr.in's stringly-typed numbers, returning 0 for
// anything unparseable.
func atoiLoose(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
