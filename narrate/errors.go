package narrate

import "errors"

// ErrNoAudioReturned indicates the remote call succeeded but produced an
// empty payload, typically the provider's safety filter emptying the
// response. It drives the simplified retry and then native speech.
var ErrNoAudioReturned = errors.New("remote synthesis returned no audio")

// neutralSentence is appended to a place's title for the simplified retry.
// The theory: the specific descriptive content triggered filtering, not the
// request itself.
const neutralSentence = "is a revered site in Tirumala, visited by devotees from around the world."
