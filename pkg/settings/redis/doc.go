// Package redis provides a Redis-backed settings.ConfigStore.
//
// The backend is optional. Building with the noredis tag compiles this
// package without any Redis code or dependency: Enabled is false and the
// backend never registers, so settings.Available(settings.BackendRedis)
// reports false while the memory and INI backends keep working.
package redis
