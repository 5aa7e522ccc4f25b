// Package processor contains the core logic behind both pages of the
// application. It turns typed text into a playable list of sign clips and an
// uploaded recording back into English and Kannada text, coordinating the
// backend client, the vocabulary, the video cache and the translators.
package processor
