// Package player plays a segmented gloss back as a slideshow of sign clips.
//
// A Sequencer walks the word list: translatable words show their clip and
// advance when it ends, untranslatable words show a notice for a fixed delay
// and then advance on their own. A Clip drives one media element for the
// active word and reports when its playback completes. The sequencer never
// touches media, and a clip never changes position.
package player
