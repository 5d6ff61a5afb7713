//go:build noredis

package redis

// Enabled reports whether the Redis backend is compiled in
const Enabled = false
