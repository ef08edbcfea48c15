// Package storage persists the client's credential token.
//
// A TokenStore is a single slot bound to one backend origin, laid over a
// KVEngine. Engines:
//
//   - MemoryEngine: in-process map, lost on exit
//   - BadgerEngine: embedded Badger database under the user's home
//   - RedisEngine: shared Redis instance, optional key TTL
//
// SealedEngine wraps any engine and encrypts values at rest.
package storage
