// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as InteractionEvent, CandidateItem and
// PreferenceVector, along with the fixed category taxonomy and domain-specific errors.
package entity

// Category identifies one of the fixed interest categories that content
// and user preferences are expressed in. The set is closed: every event
// and every candidate item must carry one of the categories below.
type Category string

const (
	CategoryAIML           Category = "ai_ml"
	CategoryStartupVenture Category = "startup_venture"
	CategoryWeb3Crypto     Category = "web3_crypto"
	CategoryProgramming    Category = "programming"
	CategoryHardwareChips  Category = "hardware_chips"
	CategoryConsumerTech   Category = "consumer_tech"
	CategoryEnterpriseSaaS Category = "enterprise_saas"
	CategorySocialMedia    Category = "social_media"
)

// categoryNames maps each category to its human-readable display name.
var categoryNames = map[Category]string{
	CategoryAIML:           "Artificial Intelligence/Machine Learning",
	CategoryStartupVenture: "Startup/Venture Investment",
	CategoryWeb3Crypto:     "Blockchain/Cryptocurrency/Web3",
	CategoryProgramming:    "Programming/Software Engineering",
	CategoryHardwareChips:  "Hardware/Semiconductor",
	CategoryConsumerTech:   "Consumer Electronics/Digital Products",
	CategoryEnterpriseSaaS: "Enterprise Services/SaaS/Cloud Computing",
	CategorySocialMedia:    "Social Media/Content Platforms",
}

// categoryOrder is the canonical iteration order. Map iteration order is
// random in Go, and several algorithms (uniform initialization, diversity
// interleaving) must be deterministic.
var categoryOrder = []Category{
	CategoryAIML,
	CategoryStartupVenture,
	CategoryWeb3Crypto,
	CategoryProgramming,
	CategoryHardwareChips,
	CategoryConsumerTech,
	CategoryEnterpriseSaaS,
	CategorySocialMedia,
}

// relatedCategories is a static adjacency table describing which categories
// are considered "related" for partial-credit scoring and for the related
// bucket of diversity selection. The relation is directional: it answers
// "is content of category X relevant to a user interested in Y".
var relatedCategories = map[Category][]Category{
	CategoryAIML:           {CategoryProgramming, CategoryHardwareChips},
	CategoryProgramming:    {CategoryAIML, CategoryHardwareChips},
	CategoryStartupVenture: {CategoryAIML, CategoryWeb3Crypto, CategoryConsumerTech},
	CategoryWeb3Crypto:     {CategoryStartupVenture, CategoryProgramming},
	CategoryHardwareChips:  {CategoryAIML, CategoryProgramming, CategoryConsumerTech},
	CategoryConsumerTech:   {CategoryAIML, CategoryHardwareChips, CategoryStartupVenture},
}

// Categories returns all categories in canonical order.
// The returned slice is a copy and safe for the caller to modify.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// CategoryCount returns the size of the fixed category set.
func CategoryCount() int { return len(categoryOrder) }

// Valid reports whether c is a member of the fixed category set.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// DisplayName returns the human-readable name of the category,
// or the raw value for unknown categories.
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

// RelatedTo reports whether content of category c is related to
// interest category interest according to the static adjacency table.
func (c Category) RelatedTo(interest Category) bool {
	for _, rel := range relatedCategories[c] {
		if rel == interest {
			return true
		}
	}
	return false
}

// RelatedToAny reports whether c is related to any of the given interests.
func (c Category) RelatedToAny(interests []Category) bool {
	for _, interest := range interests {
		if c.RelatedTo(interest) {
			return true
		}
	}
	return false
}
