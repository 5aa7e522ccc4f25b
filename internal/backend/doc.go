// Package backend talks to the sign recognition and gloss service.
//
// The service exposes a connection check at "/", sign detection for an
// uploaded clip at /api/process-video and the two gloss conversions
// /api/english and /api/isl. Requests are never retried and are bounded
// only by the caller's context.
package backend
