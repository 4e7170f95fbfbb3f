package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassOf(t *testing.T) {
	assert.Equal(t, ClassRevenue, ClassOf("1_2"))
	assert.Equal(t, ClassUse, ClassOf("2_14_03"))
	assert.Equal(t, ClassUnknown, ClassOf(""))
	assert.Equal(t, ClassUnknown, ClassOf("x_9"))
}

func TestMonthStart(t *testing.T) {
	got := MonthStart(2024, 3)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
}
