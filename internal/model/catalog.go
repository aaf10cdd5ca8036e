package model

// GameInfo describes one mini-game.
type GameInfo struct {
	ID          string
	Subject     Subject
	Title       string
	Description string
	Emoji       string
}

var catalog = []GameInfo{
	{ID: "math-falling", Subject: SubjectMath, Title: "Number Catch", Description: "Catch the right answer while dodging obstacles.", Emoji: "🪂"},
	{ID: "math-memory", Subject: SubjectMath, Title: "Math Memory", Description: "Find pairs that sum to a target.", Emoji: "🧠"},
	{ID: "math-sort", Subject: SubjectMath, Title: "Number Sort", Description: "Arrange numbers in ascending order.", Emoji: "🔢"},
	{ID: "math-compare", Subject: SubjectMath, Title: "Which is Larger?", Description: "Pick the larger number.", Emoji: "⚖️"},
	{ID: "math-calc", Subject: SubjectMath, Title: "Arithmetic Dash", Description: "Solve arithmetic quickly.", Emoji: "🦔"},
	{ID: "math-pattern", Subject: SubjectMath, Title: "Pattern Puzzle", Description: "Find the next number in a sequence.", Emoji: "🕸️"},
	{ID: "math-sign", Subject: SubjectMath, Title: "Operator Picker", Description: "Choose the correct operator.", Emoji: "🧲"},
	{ID: "english-scramble", Subject: SubjectEnglish, Title: "Word Builder", Description: "Arrange letters to form words.", Emoji: "🧩"},
	{ID: "english-spell", Subject: SubjectEnglish, Title: "Spelling Challenge", Description: "Choose the correct missing letter.", Emoji: "🪶"},
	{ID: "english-rhymes", Subject: SubjectEnglish, Title: "Rhyming Words", Description: "Pick the word that rhymes.", Emoji: "🥁"},
	{ID: "english-synonyms", Subject: SubjectEnglish, Title: "Find the Synonym", Description: "Choose the synonym for a word.", Emoji: "🦚"},
	{ID: "english-antonyms", Subject: SubjectEnglish, Title: "Opposites", Description: "Pick the word with opposite meaning.", Emoji: "🦓"},
	{ID: "science-classify", Subject: SubjectScience, Title: "Animal or Plant?", Description: "Sort objects into categories.", Emoji: "🦖"},
	{ID: "science-sequence", Subject: SubjectScience, Title: "Sequence Builder", Description: "Arrange items in the correct order.", Emoji: "🔄"},
	{ID: "science-quiz", Subject: SubjectScience, Title: "Science Quiz", Description: "Answer true/false questions.", Emoji: "🧪"},
	{ID: "science-weather", Subject: SubjectScience, Title: "Weather Match", Description: "Identify the weather.", Emoji: "🌪️"},
	{ID: "science-body", Subject: SubjectScience, Title: "Body Facts", Description: "True or false about our bodies.", Emoji: "🦴"},
}

// Catalog returns every known game in menu order.
func Catalog() []GameInfo {
	return append([]GameInfo(nil), catalog...)
}

// GameKeys returns the ids of every known game.
func GameKeys() []string {
	keys := make([]string, len(catalog))
	for i, g := range catalog {
		keys[i] = g.ID
	}
	return keys
}

// GamesForSubject returns the games of one subject in menu order.
func GamesForSubject(subject Subject) []GameInfo {
	var out []GameInfo
	for _, g := range catalog {
		if g.Subject == subject {
			out = append(out, g)
		}
	}
	return out
}

// LookupGame finds a game by id.
func LookupGame(id string) (GameInfo, bool) {
	for _, g := range catalog {
		if g.ID == id {
			return g, true
		}
	}
	return GameInfo{}, false
}
