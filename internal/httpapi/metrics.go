package httpapi

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Counters use the global meter provider; instruments created before the
// provider is installed are re-pointed by the otel global delegate.
var meter = otel.Meter("orderdesk.httpapi")

var (
	ordersPlaced  = mustCounter("orders.placed", "Orders successfully placed.")
	statusUpdates = mustCounter("orders.status_updates", "Order status overwrites applied.")
)

func mustCounter(name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		panic(err)
	}
	return c
}
