// Package cache provides the two-tier audio cache backing narration:
// an in-memory LRU of decoded sample buffers for the current process, and a
// versioned on-disk store of base64 payloads that survives restarts. Both
// tiers are optimizations only; a failing disk never fails a narration.
package cache
