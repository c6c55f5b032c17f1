package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeInterval(t *testing.T) {
	assert.Equal(t, IntervalDaily, NormalizeInterval(""))
	assert.Equal(t, IntervalDaily, NormalizeInterval("1m"))
	assert.Equal(t, IntervalWeekly, NormalizeInterval("1wk"))
	assert.Equal(t, IntervalMonthly, NormalizeInterval("1mo"))
}
