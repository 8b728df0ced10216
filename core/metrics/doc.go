// Package metrics defines the Prometheus instruments for the sync pipeline.
//
// All instruments are registered with the default registry via promauto and
// exposed on /metrics by the HTTP server. Counters are labelled by source so
// Eventbrite and Ticketmaster passes can be graphed independently.
package metrics
