package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAPITimeout(t *testing.T) {
	old := Timeout
	t.Cleanup(func() { Timeout = old })

	Timeout = "5s"
	d, err := APITimeout()
	assert.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)

	for _, v := range []string{"soon", "-1s", "0s"} {
		Timeout = v
		d, err = APITimeout()
		assert.Error(t, err, v)
		assert.Equal(t, 30*time.Second, d, v)
	}
}
