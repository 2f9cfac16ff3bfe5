// Package redistream is an asynchronous client for the Redis Streams
// feature set: a single-flight request/response connection speaking RESP,
// and a stream facade built on top of it offering XADD, XREAD, XRANGE,
// XACK and a pseudo-subscription synthesised from repeated blocking reads.
//
// Connection pooling, reconnection, pipelining, cluster routing, TLS,
// authentication, pub/sub, transactions and scripting are out of scope;
// callers needing those should reach for a general-purpose Redis client
// and use this package where XREAD-based streaming matters.
package redistream
