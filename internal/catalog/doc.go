// Package catalog pulls curated alias sets from the remote catalog into the
// local library cache.
//
// A [Client] speaks to the catalog's HTTP+JSON API: one request lists the
// catalog tree, one request per entry fetches its blob. Two listing shapes
// are understood, the plain catalog shape
//
//	{"entries": [{"path": "library/net.txt", "content_url": "..."}]}
//
// and the GitHub git-trees shape
//
//	{"tree": [{"path": "library/net.txt", "type": "blob", "url": "..."}]}
//
// A [Syncer] runs a pull: it lists the catalog, keeps the entries under the
// library prefix, fetches them with a bounded worker pool, normalizes each
// blob with [library.Normalize] and writes the canonical entry into the
// [library.Cache]. One bad entry never stops the batch; every outcome is
// recorded in the [Report].
package catalog
