package models

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Category string

const (
	Topwear      Category = "topwear"
	Bottomwear   Category = "bottomwear"
	Footwear     Category = "footwear"
	CategoryNone Category = "none"
)

// Categories in classification priority order.
var Categories = []Category{Topwear, Bottomwear, Footwear}

var categoryVocabulary = map[Category]map[string]struct{}{
	Topwear:    setOf("topwear", "shirt", "t-shirt", "blouse", "sweater"),
	Bottomwear: setOf("bottomwear", "pants", "jeans", "skirt", "shorts"),
	Footwear:   setOf("footwear", "shoes", "boots", "sandals", "sneakers"),
}

func setOf(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Classify returns the first category, in Categories order, whose vocabulary
// contains one of the tags. Tags are compared lower-cased.
func Classify(tags []string) Category {
	lowered := lowerAll(tags)
	for _, category := range Categories {
		if matchesVocabulary(lowered, category) {
			return category
		}
	}
	return CategoryNone
}

// InCategory reports whether any tag belongs to the category vocabulary,
// regardless of priority. Used to build per-category wardrobe sections.
func InCategory(tags []string, category Category) bool {
	return matchesVocabulary(lowerAll(tags), category)
}

func (c Category) Valid() bool {
	_, ok := categoryVocabulary[c]
	return ok
}

func matchesVocabulary(lowered []string, category Category) bool {
	vocabulary := categoryVocabulary[category]
	for _, tag := range lowered {
		if _, ok := vocabulary[tag]; ok {
			return true
		}
	}
	return false
}

func lowerAll(tags []string) []string {
	caser := cases.Lower(language.Und)
	lowered := make([]string, len(tags))
	for i, tag := range tags {
		lowered[i] = caser.String(tag)
	}
	return lowered
}
