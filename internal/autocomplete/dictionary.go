package autocomplete

// DefaultDictionary is the word list the playground ships with.
var DefaultDictionary = []string{
	"about", "above", "according", "account", "across", "action", "activity",
	"actually", "address", "administration", "after", "afternoon", "again",
	"against", "agreement", "already", "although", "always", "American",
	"another", "answer", "anything", "approach", "argument", "around",
	"article", "attention", "available", "because", "become", "before",
	"behavior", "believe", "between", "beyond", "building", "business",
	"campaign", "candidate", "capital", "century", "certainly", "challenge",
	"character", "children", "collection", "community", "company", "computer",
	"condition", "conference", "consider", "continue", "control", "country",
	"culture", "current", "decision", "democratic", "describe", "development",
	"difference", "different", "difficult", "direction", "discussion",
	"document", "economic", "editor", "education", "effort", "either",
	"environment", "especially", "everything", "evidence", "experience",
	"explain", "family", "financial", "following", "foreign", "formatting",
	"friend", "government", "happen", "headline", "history", "however",
	"hundred", "important", "including", "increase", "individual",
	"industry", "information", "instead", "interest", "international",
	"interview", "knowledge", "language", "learning", "literature",
	"management", "material", "meeting", "message", "million", "minute",
	"moment", "morning", "movement", "national", "natural", "necessary",
	"network", "nothing", "number", "official", "operation", "opportunity",
	"organization", "paragraph", "particular", "performance", "perhaps",
	"person", "picture", "playground", "political", "popular", "position",
	"possible", "president", "pressure", "probably", "problem", "process",
	"production", "professional", "program", "project", "property",
	"provide", "public", "question", "quickly", "reality", "recognize",
	"relationship", "remember", "report", "represent", "research",
	"resource", "response", "result", "science", "season", "security",
	"selection", "sentence", "several", "situation", "society", "something",
	"sometimes", "special", "statement", "strategy", "structure", "student",
	"success", "suddenly", "support", "surface", "system", "technology",
	"television", "themselves", "thought", "thousand", "through", "together",
	"tonight", "traditional", "understand", "university", "usually",
	"various", "whatever", "whether", "without", "writing", "yourself",
}
