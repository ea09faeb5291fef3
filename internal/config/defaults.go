package config

import "time"

const defaultPort = 8080

var defaultLog = Log{
	Backend: "slog",
	Format:  "json",
	Level:   "info",
}

var defaultDispatch = Dispatch{
	AcceptanceWindow:  60 * time.Second,
	DecisionWindow:    60 * time.Second,
	EmptyPoolPolicy:   "fail",
	MaxReopens:        1,
	WeightScore:       1,
	WeightDistance:    1,
	ReconcileSchedule: "*/15 * * * * *",
	NotifyTimeout:     2 * time.Second,
}

var defaultKitchen = Kitchen{
	Delay: 5 * time.Second,
}

// the couriers and restaurant of the demo: all around central Paris
var defaultSeed = Seed{
	Couriers:    "livreur1:4.0:48.8606:2.3376,livreur2:3.0:48.8530:2.3499,livreur3:4.6:48.8738:2.2950",
	Restaurants: "pizzeria:48.8566:2.3522",
}

var defaultDB = DB{
	MaxConns: 10,
}

var defaultDirectory = Directory{
	MaxAttempts: 3,
	BaseDelay:   100 * time.Millisecond,
	MaxDelay:    time.Second,
	Timeout:     2 * time.Second,
}

var defaultKafka = Kafka{
	GroupID:            "service-dispatch",
	OrdersTopic:        "orders.signals",
	NotificationsTopic: "dispatch.notifications",
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       5,
	Burst:      10,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultPprof = Pprof{
	Addr: "127.0.0.1:6060",
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:      defaultPort,
		Log:       defaultLog,
		Dispatch:  defaultDispatch,
		Kitchen:   defaultKitchen,
		Seed:      defaultSeed,
		DB:        defaultDB,
		Directory: defaultDirectory,
		Kafka:     defaultKafka,
		RateLimit: defaultRateLimit,
		Pprof:     defaultPprof,
	}
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}
