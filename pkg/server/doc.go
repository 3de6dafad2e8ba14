// Package server exposes a ripple store over HTTP and WebSocket.
//
// The server owns one store and one event loop. Every mutation arriving
// over HTTP is dispatched onto the loop, so the reactive semantics stay
// single-threaded: raw listeners run during the dispatched Set turn, and
// coalesced reactions run on later loop turns.
//
// Endpoints:
//
//	GET  /v1/keys           list set properties
//	GET  /v1/keys/{key}     read one property
//	PUT  /v1/keys/{key}     set one property from a JSON body
//	POST /v1/keys           set a bag of properties
//	GET  /v1/watch?keys=a,b stream coalesced reaction values over WebSocket
//	GET  /healthz           liveness
//	GET  /metrics           Prometheus metrics (when enabled)
//
// A watch connection registers a multi-key reaction on the store; each
// qualifying burst pushes one JSON frame with the settled values. Closing
// the connection detaches the reaction.
package server
