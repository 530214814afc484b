package main

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elakiavm/Steganography-GANS/steg"
)

func TestWriteMetricsTextFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := steg.NewMetrics(reg)
	m.Extractions.WithLabelValues("found").Inc()

	var buf bytes.Buffer
	require.NoError(t, writeMetrics(&buf, reg))
	assert.Contains(t, buf.String(), "# TYPE steg_extractions_total counter")
	assert.Contains(t, buf.String(), `steg_extractions_total{result="found"} 1`)
}
