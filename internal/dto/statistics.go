package dto

import "github.com/employeest/employeest-api/internal/services"

// ChartResponse carries the URL of a rendered chart
type ChartResponse struct {
	ChartURL string `json:"chart_url"`
}

// SeriesResponse is the raw form of a rollup, returned with ?format=json
type SeriesResponse struct {
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	Values []int64  `json:"values"`
}

func ToSeriesResponse(rollup services.Rollup) SeriesResponse {
	return SeriesResponse{
		Title:  rollup.Title,
		Labels: rollup.Series.Labels(),
		Values: rollup.Series.Values(),
	}
}
