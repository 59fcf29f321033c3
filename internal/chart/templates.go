package chart

import (
	"fmt"

	"github.com/employeest/employeest-api/internal/stats"
)

type Kind string

const (
	Pie  Kind = "pie"
	Bar  Kind = "bar"
	Line Kind = "line"
)

// Config is the Chart.js document submitted to the rendering service.
type Config struct {
	Type    Kind    `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label           string  `json:"label,omitempty"`
	Data            []int64 `json:"data"`
	BackgroundColor any     `json:"backgroundColor,omitempty"`
	BorderColor     string  `json:"borderColor,omitempty"`
	BorderWidth     int     `json:"borderWidth,omitempty"`
	Fill            bool    `json:"fill,omitempty"`
	Tension         float64 `json:"tension,omitempty"`
}

type Options struct {
	Responsive bool    `json:"responsive"`
	Plugins    Plugins `json:"plugins"`
	Scales     *Scales `json:"scales,omitempty"`
}

type Plugins struct {
	Legend     Legend      `json:"legend"`
	Title      Title       `json:"title"`
	DataLabels *DataLabels `json:"datalabels,omitempty"`
}

type Font struct {
	Size   int    `json:"size,omitempty"`
	Weight string `json:"weight,omitempty"`
}

type Legend struct {
	Display  bool          `json:"display"`
	Position string        `json:"position"`
	Labels   *LegendLabels `json:"labels,omitempty"`
}

type LegendLabels struct {
	Font    Font `json:"font"`
	Padding int  `json:"padding"`
}

type Padding struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

type Title struct {
	Display bool    `json:"display"`
	Text    string  `json:"text"`
	Font    Font    `json:"font"`
	Padding Padding `json:"padding"`
}

type DataLabels struct {
	Display   bool   `json:"display"`
	Color     string `json:"color"`
	Font      Font   `json:"font"`
	Formatter string `json:"formatter"`
}

type Scales struct {
	YAxes []Axis `json:"yAxes"`
	XAxes []Axis `json:"xAxes"`
}

type Axis struct {
	Ticks Ticks `json:"ticks"`
}

type Ticks struct {
	BeginAtZero bool  `json:"beginAtZero,omitempty"`
	StepSize    int   `json:"stepSize,omitempty"`
	Font        *Font `json:"font,omitempty"`
}

// PiePalette is cycled over pie slices.
var PiePalette = []string{
	"rgba(255, 99, 132, 0.7)",
	"rgba(54, 162, 235, 0.7)",
	"rgba(75, 192, 192, 0.7)",
	"rgba(255, 206, 86, 0.7)",
	"rgba(153, 102, 255, 0.7)",
	"rgba(255, 159, 64, 0.7)",
	"rgba(199, 199, 199, 0.7)",
	"rgba(83, 102, 255, 0.7)",
	"rgba(102, 255, 83, 0.7)",
}

func titleFor(text string) Title {
	return Title{
		Display: true,
		Text:    text,
		Font:    Font{Size: 14},
		Padding: Padding{Top: 10, Bottom: 15},
	}
}

func pieTemplate() Config {
	return Config{
		Type: Pie,
		Data: Data{Datasets: []Dataset{{
			BackgroundColor: PiePalette,
			BorderColor:     "rgba(255, 255, 255, 0.1)",
			BorderWidth:     1,
		}}},
		Options: Options{
			Responsive: true,
			Plugins: Plugins{
				Legend: Legend{
					Display:  true,
					Position: "top",
					Labels:   &LegendLabels{Font: Font{Size: 10}, Padding: 10},
				},
				DataLabels: &DataLabels{
					Display:   true,
					Color:     "white",
					Font:      Font{Size: 10, Weight: "bold"},
					Formatter: "(value, ctx) => { return value; }",
				},
			},
		},
	}
}

func barTemplate() Config {
	return Config{
		Type: Bar,
		Data: Data{Datasets: []Dataset{{
			BackgroundColor: "rgba(75, 192, 192, 0.7)",
			BorderColor:     "rgba(75, 192, 192, 1)",
			BorderWidth:     1,
		}}},
		Options: Options{
			Responsive: true,
			Plugins:    Plugins{Legend: Legend{Display: true, Position: "top"}},
			Scales: &Scales{
				YAxes: []Axis{{Ticks: Ticks{BeginAtZero: true, StepSize: 1}}},
				XAxes: []Axis{{Ticks: Ticks{Font: &Font{Size: 10}}}},
			},
		},
	}
}

func lineTemplate() Config {
	return Config{
		Type: Line,
		Data: Data{Datasets: []Dataset{{
			BorderColor:     "rgba(54, 162, 235, 0.9)",
			BackgroundColor: "rgba(54, 162, 235, 0.2)",
			Fill:            true,
			Tension:         0.1,
		}}},
		Options: Options{
			Responsive: true,
			Plugins:    Plugins{Legend: Legend{Display: true, Position: "top"}},
			Scales: &Scales{
				YAxes: []Axis{{Ticks: Ticks{BeginAtZero: true}}},
				XAxes: []Axis{{Ticks: Ticks{Font: &Font{Size: 10}}}},
			},
		},
	}
}

// Spec describes a chart before it is merged into a template.
type Spec struct {
	Kind         Kind
	Title        string
	DatasetLabel string
	Series       stats.Series
}

// Build merges spec into the template of its kind.
func Build(spec Spec) (Config, error) {
	var cfg Config
	switch spec.Kind {
	case Pie:
		cfg = pieTemplate()
	case Bar:
		cfg = barTemplate()
	case Line:
		cfg = lineTemplate()
	default:
		return Config{}, fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}

	cfg.Data.Labels = spec.Series.Labels()
	cfg.Data.Datasets[0].Data = spec.Series.Values()
	cfg.Data.Datasets[0].Label = spec.DatasetLabel
	cfg.Options.Plugins.Title = titleFor(spec.Title)
	return cfg, nil
}
