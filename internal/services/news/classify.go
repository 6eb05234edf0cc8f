package news

import (
	"regexp"
	"strconv"
	"strings"
)

// Classifier decides whether an article describes a feminicide case. The
// default is a keyword heuristic; it is pluggable so a smarter model can be
// dropped in without touching the fetch path.
type Classifier interface {
	Relevant(title, description string) bool
}

// KeywordClassifier matches any of a fixed keyword list, case-insensitively.
type KeywordClassifier struct {
	keywords []string
}

// NewKeywordClassifier builds a classifier over the given keywords, or the
// default Portuguese list when none are given.
func NewKeywordClassifier(keywords ...string) *KeywordClassifier {
	if len(keywords) == 0 {
		keywords = []string{
			"feminicídio",
			"mulher assassinada",
			"violência doméstica",
			"maria da penha",
			"companheiro matou",
			"ex-marido matou",
		}
	}
	return &KeywordClassifier{keywords: keywords}
}

// Relevant reports whether the article text matches any keyword.
func (k *KeywordClassifier) Relevant(title, description string) bool {
	content := strings.ToLower(title + " " + description)
	for _, kw := range k.keywords {
		if strings.Contains(content, kw) {
			return true
		}
	}
	return false
}

var (
	// "em São Paulo, SP" / "no Rio de Janeiro, RJ"
	locationRe = regexp.MustCompile(`(?:em|no|na)\s+([A-ZÀ-Ú][a-zà-ú]+(?:\s+(?:de|do|da|dos|das)?\s*[A-ZÀ-Ú][a-zà-ú]+)*),?\s+([A-Z]{2})\b`)
	ageRe      = regexp.MustCompile(`(?:de\s+)?(\d{1,2})\s+anos?\b`)
)

func extractLocation(text string) string {
	m := locationRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + ", " + m[2]
}

// extractAge returns 0 when no plausible age (15-80) is found.
func extractAge(text string) int {
	m := ageRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	age, err := strconv.Atoi(m[1])
	if err != nil || age < 15 || age > 80 {
		return 0
	}
	return age
}

func extractCircumstances(text string) string {
	lower := strings.ToLower(text)
	var found []string
	if strings.Contains(lower, "companheiro") || strings.Contains(lower, "marido") || strings.Contains(lower, "namorado") {
		found = append(found, "Violência doméstica")
	}
	if strings.Contains(lower, "tiro") || strings.Contains(lower, "bala") {
		found = append(found, "Arma de fogo")
	}
	if strings.Contains(lower, "faca") || strings.Contains(lower, "esfaqueada") {
		found = append(found, "Arma branca")
	}
	if len(found) == 0 {
		return "Circunstâncias não informadas"
	}
	return strings.Join(found, ", ")
}
