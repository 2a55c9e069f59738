// Package messaging provides a broker-agnostic API for publishing and
// consuming messages.
//
// Use cases depend on Publisher or Consumer only. The concrete driver
// (in-process memory, NATS, Kafka, NSQ or Google Pub/Sub) is picked at
// startup through NewFromDriver.
package messaging
