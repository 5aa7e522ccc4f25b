// Package videocache prefetches sign videos for a segmented gloss and keeps
// them as locally owned blobs keyed by word text.
//
// The cache is presence based: a word that is already cached only has its
// access time refreshed, it is never re-fetched. Entries are never evicted;
// every blob is released exactly once when the cache is closed. Fetch
// failures are logged and leave the word unresolved.
package videocache
