package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeState(t *testing.T) {
	assert.Equal(t, "VA", NormalizeState("Virginia"))
	assert.Equal(t, "VA", NormalizeState("virginia"))
	assert.Equal(t, "VA", NormalizeState(" VA "))
	assert.Equal(t, "VA", NormalizeState("va"))
	assert.Equal(t, "NY", NormalizeState("New York"))
	assert.Equal(t, "DC", NormalizeState("District of Columbia"))
	assert.Equal(t, "", NormalizeState("  "))
	assert.Equal(t, "XX", NormalizeState("xx"))
}

func TestStateName(t *testing.T) {
	assert.Equal(t, "Virginia", StateName("VA"))
	assert.Equal(t, "New York", StateName("ny"))
	assert.Equal(t, "District of Columbia", StateName("DC"))
	assert.Equal(t, "ZZ", StateName("ZZ"))
}
