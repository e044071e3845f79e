package service

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultRequestTimeout     = 10 * time.Second
	defaultRateLimitPerMinute = 60
	defaultRateLimitBurst     = 5
	defaultSnapshotTTL        = 1 * time.Hour
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)
