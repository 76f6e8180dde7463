// Package contentd is the reference content server the admin editors talk to.
//
// It serves the product, project and blog post endpoints over a [store.Store],
// accepts media uploads, announces every change on a websocket feed and exposes
// Prometheus metrics. The storage backend is chosen at startup:
//
//	contentd run                                  # in-memory store
//	contentd -backend postgres migrate            # create the schema
//	contentd -backend postgres run
//	contentd -backend surrealdb -read-only run    # serve reads only
//	contentd -config contentd.yaml run
//
// Content moves between backends with dump and restore:
//
//	contentd -backend postgres dump site.dump
//	contentd -backend surrealdb restore site.dump
//
// Settings come from a YAML file, environment variables and flags, with later
// sources overriding earlier ones.
//
// [store.Store]: github.com/lumenworks/contentkit/contrib/contentd/pkg/store.Store
package contentd
