// Package cfgtree provides a hierarchical settings tree for Go applications.
//
// A tree is made of sections, each holding typed settings and nested
// subsections. Every setting resolves its effective value from a fixed chain
// of sources, highest priority first:
//  1. Forced values set by application code (SetForced)
//  2. Command-line values (SetCLI, ApplySource with SourceCLI)
//  3. Environment variables, looked up on every read (PREFIX + SECTION + "_" + NAME)
//  4. Persisted values (SetValue, Set, UpdateKnown)
//  5. The default, computed by the setting's DefaultFunc
//
// Values from every source go through the same pipeline: coercion to the
// setting's Kind, validation (choices and validator), then an optional
// conform transform.
//
// Declaring settings is a two-phase protocol. Register deposits a setting in
// a section's pending pool; Section then creates (or reuses) a child and
// hands it the pool:
//
//	root := cfgtree.New(cfgtree.WithEnvPrefix("MYAPP_"))
//	root.Register("port", cfgtree.Const(8080), "Port to listen on.")
//	server, _ := root.Section("server") // server now owns "port"
//
//	port, _ := root.Int("server.port") // 8080, or $MYAPP_SERVER_PORT
//	root.Set("server.port", "9090")    // persisted value, coerced to int
//
// The Builder wraps the same protocol for declaring settings by path or from a
// tagged struct.
//
// Lookups accept either a full separated path ("server.port") or a bare name
// ("port"), which is searched for throughout the subtree; a bare name that
// matches more than once is reported with ErrAmbiguous rather than resolved
// silently.
//
// The tree serializes to and merges from plain nested maps (AsMap, DownloadTo,
// UpdateKnown, UpdateGross); Encode and Save write those maps as TOML, YAML
// or JSON. Reading files and parsing command lines is left to the caller.
//
// Concurrency:
// A tree is not safe for concurrent mutation. Build and populate it during
// startup, then treat it as read-mostly; guard writes with a single mutex if
// the application needs to change values while other goroutines read.
package cfgtree
