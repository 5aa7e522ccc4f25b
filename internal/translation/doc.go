// Package translation translates between English and Kannada. The default
// provider is the public Google endpoint behind a circuit breaker; OpenAI and
// Gemini are available as alternatives with Google as their fallback. A
// phrasebook of known sentence pairs is consulted before any provider.
package translation
