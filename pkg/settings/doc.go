// Package settings provides a uniform key/value configuration abstraction
// with in-memory, INI file and Redis-backed implementations.
//
// The package defines a ConfigStore interface with typed accessors. Every
// backend reads and writes plain strings; the typed accessors coerce the raw
// value and fall back to a caller-supplied default when the key is absent.
// A value that exists but cannot be coerced is an error, never the default.
//
// Example usage:
//
//	store, err := ini.New("/etc/carpi/app.ini")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	ctx := context.Background()
//	port, err := store.ReadIntValue(ctx, "gps.port", 2947)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := store.WriteValue(ctx, "gps.port", port+1); err != nil {
//		log.Fatal(err)
//	}
//	if err := store.SaveConfig(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// Backends are constructed directly (memory.New, ini.New, redis.New). The
// Open factory builds one from a Config for applications that pick their
// backend at deploy time; it requires the backend packages to be imported so
// they can register themselves. The Redis backend is excluded from builds
// using the noredis tag, which Available reports.
package settings
