package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/employeest/employeest-api/internal/chart"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/employeest/employeest-api/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleRollup() services.Rollup {
	return services.Rollup{
		Title:  "Monthly Completed Story Points (Last Year)",
		Kind:   chart.Bar,
		Series: stats.Series{{Label: "2024-02", Value: 1}, {Label: "2024-05", Value: 7}},
	}
}

func TestWriteRollup_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRollup(&buf, sampleRollup(), "yaml"))

	var doc yamlRollup
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "bar", doc.Kind)
	assert.Equal(t, []yamlPoint{{"2024-02", 1}, {"2024-05", 7}}, doc.Series)
}

func TestWriteRollup_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRollup(&buf, sampleRollup(), "json"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Monthly Completed Story Points (Last Year)", decoded["title"])
	assert.Len(t, decoded["series"], 2)
}

func TestWriteRollup_UnknownFormat(t *testing.T) {
	assert.Error(t, writeRollup(&bytes.Buffer{}, sampleRollup(), "xml"))
}
