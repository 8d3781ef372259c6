package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Token    string            `env:"TOKEN,required,notEmpty"`
	Users    []int64           `env:"USERS" envSeparator:";"`
	Spacing  time.Duration     `env:"SPACING"`
	Ratio    float64           `env:"RATIO"`
	Enabled  bool              `env:"ENABLED"`
	Headers  map[string]string `env:"HEADERS"`
	Empty    string            `env:"EMPTY"`
	Untagged string
	hidden   string `env:"HIDDEN"`
}

func TestMarshalEnv(t *testing.T) {
	got, err := MarshalEnv(&sample{
		Token:    "secret",
		Users:    []int64{1, 2},
		Spacing:  3 * time.Second,
		Ratio:    0.85,
		Enabled:  true,
		Headers:  map[string]string{"b": "2", "a": "1"},
		Untagged: "x",
		hidden:   "y",
	}, WithMasked("TOKEN"))
	require.NoError(t, err)

	assert.Equal(t, "TOKEN=***\nUSERS=1;2\nSPACING=3s\nRATIO=0.85\nENABLED=true\nHEADERS=a:1,b:2\n", got)
}

func TestMarshalEnv_NotAStruct(t *testing.T) {
	_, err := MarshalEnv(42)
	assert.Error(t, err)
}
