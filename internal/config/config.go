// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server and the simulated
// backend services.
type Config struct {
	ServiceName        string
	Env                string
	HTTPAddr           string
	ShutdownTimeout    time.Duration
	ProductFetchDelay  time.Duration
	CategoryFetchDelay time.Duration
	OrderSubmitDelay   time.Duration
	OrderAcceptRate    float64
	RandomSeed         int64
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatenv(key string, def float64) float64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults. RANDOM_SEED=0
// means seed from the clock.
func Load() Config {
	return Config{
		ServiceName:        getenv("SERVICE_NAME", "freshmart-pos"),
		Env:                getenv("ENV", "dev"),
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:    durenvs("SHUTDOWN_TIMEOUT", 10),
		ProductFetchDelay:  durenvms("PRODUCT_FETCH_DELAY_MS", 800),
		CategoryFetchDelay: durenvms("CATEGORY_FETCH_DELAY_MS", 300),
		OrderSubmitDelay:   durenvms("ORDER_SUBMIT_DELAY_MS", 1200),
		OrderAcceptRate:    floatenv("ORDER_ACCEPT_RATE", 0.85),
		RandomSeed:         int64(atoienv("RANDOM_SEED", 0)),
	}
}
