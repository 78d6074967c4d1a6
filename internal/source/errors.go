package source

import "github.com/rotisserie/eris"

// ErrNoCandidates is returned by Extract when the search step produced no
// results for a topic. Detect it with errors.Is.
var ErrNoCandidates = eris.New("no search results for topic")
