package caster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reload struct {
	Dataset string `json:"dataset"`
	Rows    int    `json:"rows"`
}

func TestJSONChannelCaster(t *testing.T) {
	var c ChannelCaster[reload] = JSONChannelCaster[reload]{}

	payload, err := c.To(reload{Dataset: "laps.csv", Rows: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dataset":"laps.csv","rows":3}`, payload)

	back, err := c.From(payload)
	require.NoError(t, err)
	assert.Equal(t, reload{Dataset: "laps.csv", Rows: 3}, back)

	_, err = c.From("not json")
	assert.Error(t, err)
}
