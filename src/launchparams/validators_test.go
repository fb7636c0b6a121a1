package launchparams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		validator Validator
		value     string
		valid     bool
	}{
		{"intensity lower bound", DecimalRange(8, 31), "8", true},
		{"intensity decimal", DecimalRange(8, 31), "19.5", true},
		{"intensity upper bound", DecimalRange(8, 31), "31.0", true},
		{"intensity too high", DecimalRange(8, 31), "31.1", false},
		{"intensity too low", DecimalRange(8, 31), "7.9", false},
		{"intensity not a number", DecimalRange(8, 31), "high", false},
		{"intensity NaN", DecimalRange(8, 31), "NaN", false},
		{"intensity infinity", DecimalRange(8, 31), "+Inf", false},
		{"intensity hex float", DecimalRange(8, 31), "0x1p4", false},
		{"priority idle", IntegerRange(0, 5), "0", true},
		{"priority highest", IntegerRange(0, 5), "5", true},
		{"priority out of range", IntegerRange(0, 5), "6", false},
		{"priority decimal", IntegerRange(0, 5), "2.5", false},
		{"affinity two cores", AffinityMask(4), "0x3", true},
		{"affinity without prefix", AffinityMask(4), "f", true},
		{"affinity beyond cores", AffinityMask(4), "0x10", false},
		{"affinity empty mask", AffinityMask(4), "0x0", false},
		{"affinity not hex", AffinityMask(4), "0xzz", false},
		{"affinity unknown core count", AffinityMask(0), "0xff00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator(tt.value)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
