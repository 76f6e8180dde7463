// Package contentkit drives the admin editing workflow for site content:
// products, projects and blog posts.
//
// # Pipeline
//
// An [Editor] ties together the pieces of one admin screen:
//
//   - the document being edited, held by a [github.com/lumenworks/contentkit/pkg/form.Controller]
//     and changed through discrete edits addressed by typed field lenses
//   - media resolution, which uploads every file selected in the document
//     concurrently and substitutes the stored paths
//     ([github.com/lumenworks/contentkit/pkg/media])
//   - a [Gateway] that persists resolved documents, usually the REST client of
//     [github.com/lumenworks/contentkit/pkg/client]
//   - the list cache backing the admin list view
//
// On submit the editor validates the document key, resolves media and sends a
// create or update. The list cache is changed only after the server confirmed
// the operation, and it is updated from the record the server returned. When
// anything fails, the cache and the form are left exactly as they were so the
// author can retry.
//
// # Consistency across sessions
//
// Each editor owns its cache. Editors in other sessions learn about changes by
// re-fetching, either on demand with [Editor.Load] or by following the server's
// change events with [Editor.Follow].
//
// # Reference server
//
// [github.com/lumenworks/contentkit/contrib/contentd] serves the content API the
// client talks to, backed by memory, PostgreSQL or SurrealDB.
package contentkit
