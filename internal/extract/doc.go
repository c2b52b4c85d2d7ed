// Package extract recovers dependency identifiers and preview image URLs
// from a workshop item's HTML page. Each signal is produced by an ordered
// chain of strategies; the first strategy that yields a result wins and the
// rest are skipped. Extraction never fails: no match is an empty result.
package extract
