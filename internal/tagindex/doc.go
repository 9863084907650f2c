// Package tagindex is an in-memory, hierarchical and synonym-aware tag index.
//
// An Engine associates opaque item identifiers with normalized tags and answers
// AND/OR/NOT queries over them. A query term can be widened through the tag
// hierarchy (a query for "programming" also matches items tagged with any
// descendant such as "javascript") and through one-hop synonyms.
//
// # Usage
//
//	engine := tagindex.New[string]()
//	engine.AddEdge("javascript", "programming")
//	engine.AddSynonym("javascript", "js")
//	engine.TagItem("file-1.js", []string{"js", "utility"})
//
//	res, err := engine.Query([]string{"programming"}, tagindex.WithOperator(tagindex.OpAnd))
//
// # Normalization
//
// Every tag passes through a Normalizer exactly once at the API boundary:
// whitespace is trimmed, case is folded unless the engine is case sensitive,
// and tags are capped at a maximum rune length. Tag lists may be given as
// explicit slices, as delimited strings ("a, b; c") or a mix of both.
//
// # Thread Safety
//
// All state lives behind a single sync.RWMutex. Mutations hold the write lock
// for their whole duration so the item/tag views never diverge; queries,
// lookups and statistics share the read lock.
//
// # Persistence
//
// The engine does not persist anything. Snapshot exports the data model and
// Restore loads one back, re-validating normalization and acyclicity.
package tagindex
