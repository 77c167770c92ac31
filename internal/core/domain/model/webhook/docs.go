// Package webhook contains the durable inbound-event record and the internal
// event vocabulary vendor payloads are classified into.
//
// A Webhook row is persisted in pending status before any processing starts,
// so every externally triggered event survives a crash and can be replayed.
// Classification is per-source: each sender has its own decoder that maps its
// payload schema onto the Event vocabulary.
package webhook
