package entity

// Vocabulary maps each category to the lowercase keywords used by the
// keyword-overlap scorer and the local fallback classifier. Matching is
// case-insensitive substring matching against title and summary text.
type Vocabulary map[Category][]string

// defaultVocabulary is the built-in per-category keyword library.
// It can be overridden at startup from a YAML file (VOCABULARY_PATH).
var defaultVocabulary = Vocabulary{
	CategoryAIML: {
		"ai", "artificial intelligence", "machine learning", "deep learning",
		"neural network", "transformer", "generative ai", "agi",
		"chatgpt", "gpt", "claude", "gemini", "llama",
		"openai", "anthropic", "deepmind", "midjourney",
		"llm", "large language model", "foundation model", "diffusion model",
		"computer vision", "nlp", "ai agent", "reinforcement learning",
		"fine-tuning", "prompt engineering", "rag", "embedding",
		"vector database", "multimodal", "pytorch", "tensorflow", "hugging face",
	},
	CategoryStartupVenture: {
		"startup", "funding", "venture capital", "vc", "angel investor",
		"seed funding", "series a", "series b", "series c", "valuation",
		"ipo", "acquisition", "merger", "unicorn", "exit",
		"ycombinator", "y combinator", "demo day", "accelerator", "incubator",
		"founder", "pitch deck", "term sheet", "cap table",
	},
	CategoryWeb3Crypto: {
		"bitcoin", "ethereum", "blockchain", "defi", "nft",
		"cryptocurrency", "crypto", "web3", "solana", "polygon",
		"smart contract", "token", "stablecoin", "wallet", "mining",
		"dao", "layer 2", "staking", "binance", "coinbase",
	},
	CategoryProgramming: {
		"python", "javascript", "typescript", "react", "vue",
		"golang", "rust", "node.js", "open source", "github",
		"framework", "api", "kubernetes", "docker", "devops",
		"compiler", "refactoring", "testing", "ci/cd", "git",
	},
	CategoryHardwareChips: {
		"chip", "semiconductor", "gpu", "cpu", "nvidia",
		"amd", "intel", "tsmc", "quantum computing", "apple silicon",
		"fab", "wafer", "lithography", "arm", "risc-v",
		"datacenter", "accelerator card", "foundry",
	},
	CategoryConsumerTech: {
		"iphone", "tesla", "apple", "xiaomi", "samsung",
		"android", "electric vehicle", "ev", "smart home", "wearable",
		"macbook", "ipad", "pixel", "vr headset", "ar glasses",
		"smartwatch", "console", "gadget",
	},
	CategoryEnterpriseSaaS: {
		"saas", "enterprise", "crm", "cloud computing", "aws",
		"azure", "google cloud", "salesforce", "slack", "notion",
		"workflow", "productivity", "erp", "b2b", "subscription",
		"data warehouse", "snowflake", "databricks",
	},
	CategorySocialMedia: {
		"twitter", "tiktok", "social media", "livestream", "short video",
		"instagram", "youtube", "facebook", "linkedin", "reddit",
		"creator economy", "influencer", "threads", "discord",
		"content moderation", "algorithm feed",
	},
}

// DefaultVocabulary returns a deep copy of the built-in keyword library.
func DefaultVocabulary() Vocabulary {
	out := make(Vocabulary, len(defaultVocabulary))
	for cat, words := range defaultVocabulary {
		cp := make([]string, len(words))
		copy(cp, words)
		out[cat] = cp
	}
	return out
}
