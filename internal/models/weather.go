package models

// Location echoes the query that produced a response.
type Location struct {
	State string `json:"state"`
	City  string `json:"city"`
}

// DailyBlock is fabricated chart data derived from the yearly series by random
// perturbation. It is not real daily observation data.
type DailyBlock struct {
	Years           []int       `json:"years"`
	Temperatures    [][]float64 `json:"temperatures"`
	Increases       []float64   `json:"increases"`
	AverageIncrease float64     `json:"averageIncrease"`
}

type TemperatureBlock struct {
	Yearly []float64  `json:"yearly"`
	Avg    float64    `json:"avg"`
	Min    float64    `json:"min"`
	Max    float64    `json:"max"`
	Trend  string     `json:"trend"`
	Daily  DailyBlock `json:"daily"`
}

// WeatherResponse is the body of GET /api/weather-data. Years and Temperature.Yearly are
// index-aligned except when the dataset had no Year column.
type WeatherResponse struct {
	Location    Location         `json:"location"`
	Years       []int            `json:"years"`
	Temperature TemperatureBlock `json:"temperature"`
}

// CitiesResponse is the body of GET /api/cities.
type CitiesResponse struct {
	Cities []string `json:"cities"`
}
