// Package features derives keywords, skills, contact details and section
// snippets from résumé text.
package features

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/spigell/resume-matcher/internal/models"
)

// snippetLength is the number of characters kept after a section keyword.
const snippetLength = 500

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?(\d{3})\)?[-.\s]?(\d{3})[-.\s]?(\d{4})`)
	namePattern  = regexp.MustCompile(`(?m)^[A-Z][a-z]+ [A-Z][a-z]+`)

	experiencePattern = sectionPattern("experience")
	educationPattern  = sectionPattern("education")
)

func sectionPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word) + `[\s\S]{0,` + strconv.Itoa(snippetLength) + `}`)
}

// Features is everything the analyzer extracts from a text.
type Features struct {
	Keywords   []string
	Skills     []string
	Contact    models.ContactInfo
	Experience string
	Education  string
}

// Analyze extracts features from text. It never fails: empty input yields
// empty lists and empty optional fields.
func Analyze(text string) Features {
	lower := strings.ToLower(text)

	return Features{
		Keywords:   matchVocabulary(lower, Keywords),
		Skills:     matchVocabulary(lower, Skills),
		Contact:    ExtractContact(text),
		Experience: experiencePattern.FindString(text),
		Education:  educationPattern.FindString(text),
	}
}

// ExtractContact returns the first email, phone and name line found in text.
func ExtractContact(text string) models.ContactInfo {
	return models.ContactInfo{
		Email: emailPattern.FindString(text),
		Phone: phonePattern.FindString(text),
		Name:  namePattern.FindString(text),
	}
}

// matchVocabulary returns every vocabulary term contained in lower, sorted and
// deduplicated.
func matchVocabulary(lower string, vocabulary []string) []string {
	found := make(map[string]struct{})
	for _, term := range vocabulary {
		term = strings.TrimSpace(strings.ToLower(term))
		if term == "" {
			continue
		}
		if strings.Contains(lower, term) {
			found[term] = struct{}{}
		}
	}
	return sortedSet(found)
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for term := range set {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}
