// Package classifier maps raw customer text to a support category using
// ordered keyword rules. Classification is a pure function of the input
// text, so ambiguous messages always resolve the same way.
package classifier

import "strings"

// Well-known category names.
const (
	CategoryBilling     = "billing"
	CategoryPlans       = "plans"
	CategoryTechSupport = "tech_support"
	CategoryGeneral     = "general"
)

// Service classifies a customer message into a category.
type Service interface {
	Classify(text string) string
}

// CategoryRule binds a category name to its trigger keywords.
// Keywords are matched as lower-cased substrings.
type CategoryRule struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// Config holds the ordered category rules and the fallback category.
// Rule order matters: the first category with a matching keyword wins.
type Config struct {
	Categories []CategoryRule `json:"categories"`
	Fallback   string         `json:"fallback"`
}

// DefaultConfig returns the telecom support category rules.
func DefaultConfig() *Config {
	return &Config{
		Categories: []CategoryRule{
			{
				Name:     CategoryBilling,
				Keywords: []string{"invoice", "bill", "payment", "debt", "balance", "charge", "refund"},
			},
			{
				Name:     CategoryPlans,
				Keywords: []string{"package", "plan", "tariff", "data", "internet", "sms", "minutes", "campaign", "fiber", "mobile", "upgrade"},
			},
			{
				Name:     CategoryTechSupport,
				Keywords: []string{"connection", "speed", "modem", "router", "outage", "not working", "slow", "signal"},
			},
			{
				Name:     CategoryGeneral,
				Keywords: []string{"company", "store", "address", "contact", "opening hours", "branch"},
			},
		},
		Fallback: CategoryGeneral,
	}
}

// RuleClassifier is a keyword-based classifier over an ordered rule set.
type RuleClassifier struct {
	config *Config
}

var _ Service = (*RuleClassifier)(nil)

// NewRuleClassifier creates a classifier from the given config.
func NewRuleClassifier(config *Config) *RuleClassifier {
	if config == nil {
		config = DefaultConfig()
	}
	return &RuleClassifier{config: config}
}

// Classify returns the first category whose keyword set matches the
// lower-cased input, or the fallback category when nothing matches.
func (c *RuleClassifier) Classify(text string) string {
	lowered := strings.ToLower(text)
	for _, rule := range c.config.Categories {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, keyword) {
				return rule.Name
			}
		}
	}
	return c.config.Fallback
}

// Categories returns the configured category names in declaration order.
func (c *RuleClassifier) Categories() []string {
	names := make([]string, 0, len(c.config.Categories))
	for _, rule := range c.config.Categories {
		names = append(names, rule.Name)
	}
	return names
}
