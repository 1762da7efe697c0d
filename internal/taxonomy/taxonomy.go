// Package taxonomy classifies businesses into a fixed category tree
// using an ordered keyword rule table.
package taxonomy

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadscan/internal/model"
)

// Top-level categories.
const (
	CategoryGym    = "Gym/Fitness"
	CategoryClinic = "Healthcare/Clinic"
	CategoryOther  = "Other"
)

// Rule maps a keyword pattern to a category and subcategory. Higher
// specificity wins; ties are broken by table order.
type Rule struct {
	Pattern     string `yaml:"pattern"`
	Specificity int    `yaml:"specificity"`
	Category    string `yaml:"category"`
	Subcategory string `yaml:"subcategory"`
}

// defaultRules is the built-in rule table. Patterns are matched
// case-insensitively against the listing's name, category, and
// subcategory text.
var defaultRules = []Rule{
	// Gym subcategories, most specific first.
	{Pattern: "women", Specificity: 3, Category: CategoryGym, Subcategory: "Women-Only Gym"},
	{Pattern: "ladies", Specificity: 3, Category: CategoryGym, Subcategory: "Women-Only Gym"},
	{Pattern: "crossfit", Specificity: 3, Category: CategoryGym, Subcategory: "Functional Fitness"},
	{Pattern: "functional", Specificity: 3, Category: CategoryGym, Subcategory: "Functional Fitness"},
	{Pattern: "yoga", Specificity: 3, Category: CategoryGym, Subcategory: "Yoga/Pilates Studio"},
	{Pattern: "pilates", Specificity: 3, Category: CategoryGym, Subcategory: "Yoga/Pilates Studio"},
	{Pattern: "mma", Specificity: 3, Category: CategoryGym, Subcategory: "Martial Arts/Boxing"},
	{Pattern: "boxing", Specificity: 3, Category: CategoryGym, Subcategory: "Martial Arts/Boxing"},
	{Pattern: "martial", Specificity: 3, Category: CategoryGym, Subcategory: "Martial Arts/Boxing"},
	{Pattern: "karate", Specificity: 3, Category: CategoryGym, Subcategory: "Martial Arts/Boxing"},
	{Pattern: "wellness club", Specificity: 3, Category: CategoryGym, Subcategory: "Health Club/Wellness"},
	{Pattern: "health club", Specificity: 3, Category: CategoryGym, Subcategory: "Health Club/Wellness"},
	{Pattern: "spa", Specificity: 2, Category: CategoryGym, Subcategory: "Health Club/Wellness"},
	{Pattern: "gym", Specificity: 2, Category: CategoryGym, Subcategory: "Traditional Gym"},
	{Pattern: "fitness", Specificity: 1, Category: CategoryGym, Subcategory: "Traditional Gym"},

	// Clinic subcategories.
	{Pattern: "multi-specialty", Specificity: 3, Category: CategoryClinic, Subcategory: "Multi-Specialty Hospital"},
	{Pattern: "multispecialty", Specificity: 3, Category: CategoryClinic, Subcategory: "Multi-Specialty Hospital"},
	{Pattern: "hospital", Specificity: 2, Category: CategoryClinic, Subcategory: "Multi-Specialty Hospital"},
	{Pattern: "diagnostic", Specificity: 3, Category: CategoryClinic, Subcategory: "Diagnostic Center"},
	{Pattern: "pathology", Specificity: 3, Category: CategoryClinic, Subcategory: "Diagnostic Center"},
	{Pattern: "lab", Specificity: 2, Category: CategoryClinic, Subcategory: "Diagnostic Center"},
	{Pattern: "physiotherapy", Specificity: 3, Category: CategoryClinic, Subcategory: "Physiotherapy Clinic"},
	{Pattern: "physio", Specificity: 2, Category: CategoryClinic, Subcategory: "Physiotherapy Clinic"},
	{Pattern: "rehab", Specificity: 2, Category: CategoryClinic, Subcategory: "Physiotherapy Clinic"},
	{Pattern: "wellness center", Specificity: 3, Category: CategoryClinic, Subcategory: "Wellness Center"},
	{Pattern: "ayurved", Specificity: 2, Category: CategoryClinic, Subcategory: "Wellness Center"},
	{Pattern: "dental", Specificity: 3, Category: CategoryClinic, Subcategory: "Specialty Clinic"},
	{Pattern: "skin", Specificity: 2, Category: CategoryClinic, Subcategory: "Specialty Clinic"},
	{Pattern: "eye", Specificity: 2, Category: CategoryClinic, Subcategory: "Specialty Clinic"},
	{Pattern: "clinic", Specificity: 1, Category: CategoryClinic, Subcategory: "Specialty Clinic"},
}

// Classifier assigns taxonomy categories from a rule table.
type Classifier struct {
	rules []Rule
}

// New returns a Classifier using the built-in rule table.
func New() *Classifier {
	return &Classifier{rules: defaultRules}
}

// NewFromFile returns a Classifier with rules loaded from a YAML file.
// File rules replace the built-in table entirely.
func NewFromFile(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "taxonomy: read rules %s", path)
	}
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, eris.Wrapf(err, "taxonomy: parse rules %s", path)
	}
	if len(rules) == 0 {
		return nil, eris.Errorf("taxonomy: rules file %s is empty", path)
	}
	return &Classifier{rules: rules}, nil
}

// Classify sets Category and Subcategory on a record from its name and
// raw category text. No matching rule yields CategoryOther.
func (c *Classifier) Classify(rec *model.BusinessRecord) {
	text := strings.ToLower(rec.Name + " " + rec.Category + " " + rec.Subcategory)

	best := -1
	for i, rule := range c.rules {
		if !strings.Contains(text, strings.ToLower(rule.Pattern)) {
			continue
		}
		if best == -1 || rule.Specificity > c.rules[best].Specificity {
			best = i
		}
	}

	if best == -1 {
		rec.Category = CategoryOther
		rec.Subcategory = ""
		return
	}
	rec.Category = c.rules[best].Category
	rec.Subcategory = c.rules[best].Subcategory
}
