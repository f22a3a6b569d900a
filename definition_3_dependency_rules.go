package scheduler

import (
	"slices"
	"strings"
	"unicode"
)

// TaskType orders kinds of work from preparation to wrap-up.
type TaskType uint8

const (
	TaskTypeUnknown TaskType = iota
	TaskTypeSetup
	TaskTypeLearn
	TaskTypePractice
	TaskTypeBuild
	TaskTypeTest
	TaskTypeFinal
)

func (t TaskType) String() string {
	switch t {
	case TaskTypeSetup:
		return "setup"
	case TaskTypeLearn:
		return "learn"
	case TaskTypePractice:
		return "practice"
	case TaskTypeBuild:
		return "build"
	case TaskTypeTest:
		return "test"
	case TaskTypeFinal:
		return "final"
	default:
		return "unknown"
	}
}

var (
	phrasesFinal    = []string{"final review", "final check", "polish", "wrap-up", "wrap up"}
	phrasesTest     = []string{"test", "qa ", "verify", "proofread"}
	phrasesPractice = []string{"practice", "rehears", "mock interview", "dry run"}
	phrasesBuild    = []string{"create", "build", "write", "draft", "implement", "develop", "design"}
	phrasesLearn    = []string{"learn", "understand", "study", "read up", "review notes"}
	phrasesSetup    = []string{"setup", "set up", "install", "outline", "research", "gather", "plan "}
)

// classificationOrder is checked top down: the first match wins,
// so "final review" never reads as a plain review.
var classificationOrder = []struct {
	phrases  []string
	taskType TaskType
}{
	{phrasesFinal, TaskTypeFinal},
	{phrasesPractice, TaskTypePractice},
	{phrasesTest, TaskTypeTest},
	{phrasesBuild, TaskTypeBuild},
	{phrasesLearn, TaskTypeLearn},
	{phrasesSetup, TaskTypeSetup},
}

func ClassifyTaskType(name string) TaskType {
	normalized := normalizeName(name)

	for _, class := range classificationOrder {
		if containsAny(normalized, class.phrases) {
			return class.taskType
		}
	}

	return TaskTypeUnknown
}

// topicCatalogue holds coarse subjects used to keep unrelated tasks apart.
// Keywords match whole words, a trailing "s" allowed.
var topicCatalogue = map[string][]string{
	"payment":      {"payment", "stripe", "billing", "checkout", "invoice", "pricing"},
	"content":      {"content", "blog", "article", "copy", "description", "newsletter"},
	"design":       {"design", "logo", "mockup", "wireframe", "layout", "branding"},
	"testing":      {"testing", "qa", "bug", "test case"},
	"marketing":    {"marketing", "campaign", "social media", "seo", "advert", "advertising"},
	"presentation": {"presentation", "slide", "speech", "pitch", "talk"},
	"interview":    {"interview", "resume", "cover letter"},
	"development":  {"code", "api", "backend", "frontend", "database", "deploy", "deployment"},
	"fitness":      {"workout", "exercise", "training", "running", "jog", "gym"},
}

// ExtractTopics returns the sorted topics a task name mentions.
func ExtractTopics(name string) []string {
	words := splitWords(name)

	var result []string

	for topic, keywords := range topicCatalogue {
		if slices.ContainsFunc(
			keywords,
			func(keyword string) bool {
				return containsWords(words, strings.Fields(keyword))
			},
		) {
			result = append(result, topic)
		}
	}

	slices.Sort(result)

	return result
}

// splitWords lowercases name and cuts it on anything not a letter or digit.
func splitWords(name string) []string {
	return strings.FieldsFunc(
		strings.ToLower(name),
		func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		},
	)
}

// containsWords reports whether phrase appears in words as a contiguous run.
func containsWords(words, phrase []string) bool {
	if len(phrase) == 0 {
		return false
	}

	for start := 0; start+len(phrase) <= len(words); start++ {
		matched := true

		for offset, keyword := range phrase {
			word := words[start+offset]

			if word != keyword && word != keyword+"s" {
				matched = false

				break
			}
		}

		if matched {
			return true
		}
	}

	return false
}

// TopicConfidence rates how likely two task names are about the same thing:
// 1 for a shared topic, 0.5 when neither names a topic,
// 0.2 when only one does and 0 for disjoint topics.
func TopicConfidence(nameA, nameB string) float64 {
	topicsA := ExtractTopics(nameA)
	topicsB := ExtractTopics(nameB)

	switch {
	case len(topicsA) == 0 && len(topicsB) == 0:
		return 0.5

	case len(topicsA) == 0 || len(topicsB) == 0:
		return 0.2
	}

	for _, topic := range topicsA {
		if slices.Contains(topicsB, topic) {
			return 1
		}
	}

	return 0
}

const (
	_ConfidenceLink       = 0.5
	_ConfidenceSharedOnly = 1.0
)

type directionRule uint8

const (
	// producer before consumer whatever the sequence says.
	directionProducerFirst directionRule = iota + 1

	// producer before consumer only when the sequence does not contradict it.
	directionFollowSequence
)

type DependencyRule struct {
	Name      string
	Producers []string
	Consumers []string

	direction directionRule
}

var dependencyRules = []DependencyRule{
	{
		Name:      "prepare before produce",
		Producers: []string{"outline", "research", "gather", "setup", "set up", "learn", "study", "understand"},
		Consumers: []string{"create", "build", "write", "draft", "implement", "practice", "test"},
		direction: directionProducerFirst,
	},
	{
		Name:      "practice before final",
		Producers: []string{"practice", "rehears", "mock interview", "dry run"},
		Consumers: []string{"final review", "final check", "polish", "wrap-up", "wrap up"},
		direction: directionProducerFirst,
	},
	{
		Name:      "produce before verify",
		Producers: []string{"create", "build", "write", "draft", "implement", "develop"},
		Consumers: []string{"test", "proofread", "verify", "final review", "polish", "edit"},
		direction: directionFollowSequence,
	},
}

// DependencyRules returns a copy of the inference table.
func DependencyRules() []DependencyRule {
	return slices.Clone(dependencyRules)
}

// Matches reports whether producerName feeds consumerName under this rule.
// A name matching both sides of the rule never links to itself through it.
func (r DependencyRule) Matches(producerName, consumerName string) bool {
	producer := normalizeName(producerName)
	consumer := normalizeName(consumerName)

	if !containsAny(producer, r.Producers) || !containsAny(consumer, r.Consumers) {
		return false
	}

	return !(containsAny(producer, r.Consumers) && containsAny(consumer, r.Producers))
}

// forbiddenEdge lists dependent/prerequisite type pairs no inference may produce.
func forbiddenEdge(dependentName, prerequisiteName string) bool {
	dependent := normalizeName(dependentName)
	prerequisite := normalizeName(prerequisiteName)

	if containsAny(dependent, []string{"learn", "understand"}) &&
		containsAny(prerequisite, phrasesPractice) {
		return true
	}

	return containsAny(dependent, phrasesPractice) &&
		containsAny(prerequisite, []string{"final review", "final check"})
}

func normalizeName(name string) string {
	// trailing space lets "qa " and "plan " match at the end of a name
	return strings.ToLower(strings.TrimSpace(name)) + " "
}

func containsAny(normalized string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}

	return false
}
