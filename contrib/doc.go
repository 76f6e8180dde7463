// Package contrib holds programs built on the contentkit packages that are
// not part of the editing library itself.
//
// [github.com/lumenworks/contentkit/contrib/contentd] is the reference content
// server: the HTTP API the editors talk to, backed by an in-memory,
// PostgreSQL or SurrealDB store, with local or S3 media storage, a change
// feed over WebSocket, and dump and restore commands for moving content
// between backends.
package contrib
