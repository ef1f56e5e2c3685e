package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rezkam/aftermarket/internal/config"
)

func TestSweeperOptions(t *testing.T) {
	base := config.AutomationConfig{Interval: time.Second, BatchSize: 10}
	assert.Len(t, sweeperOptions(base), 3)

	paced := base
	paced.PromotionsPerSecond = 2.5
	assert.Len(t, sweeperOptions(paced), 4)

	paced.PromotionsPerSecond = -1
	assert.Len(t, sweeperOptions(paced), 3)
}
