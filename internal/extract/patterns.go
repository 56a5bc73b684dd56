package extract

import "regexp"

var (
	// loosePattern finds anything email-shaped in recognized text.
	loosePattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// strictPattern accepts a whole candidate only for the allowed TLDs.
	strictPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.(com|org|net|edu|gov)$`)
)

// Candidates returns every loose email-shaped match in text, in order of
// appearance, duplicates included.
func Candidates(text string) []string {
	return loosePattern.FindAllString(text, -1)
}

// Valid reports whether a candidate passes the strict pattern.
func Valid(candidate string) bool {
	return strictPattern.MatchString(candidate)
}

// FindAddresses returns the candidates in text that pass the strict pattern.
// Order of appearance is kept and duplicates are not removed.
func FindAddresses(text string) []string {
	var found []string
	for _, candidate := range Candidates(text) {
		if Valid(candidate) {
			found = append(found, candidate)
		}
	}
	return found
}
