package category

import "strings"

// Category names a destination directory in the intake tree.
type Category string

const (
	Finance     Category = "Finance"
	Chats       Category = "Chats"
	Shopping    Category = "Shopping"
	CodeTech    Category = "Code_Tech"
	SocialMedia Category = "Social_Media"
	System      Category = "System"
	Events      Category = "Events"
	Food        Category = "Food"
	MapsTravel  Category = "Maps_Travel"

	// Unsorted collects files no rule or model could place.
	Unsorted Category = "Unsorted"
	// Videos is assigned to video files before any frame analysis runs.
	Videos Category = "Videos"
)

// All lists the concrete categories in rule-evaluation order. The
// sentinels are excluded.
var All = []Category{
	Finance,
	Chats,
	Shopping,
	CodeTech,
	SocialMedia,
	System,
	Events,
	Food,
	MapsTravel,
}

// rule pairs one category with its keywords, in match priority order.
type rule struct {
	category Category
	keywords []string
}

// Table drives rule-based classification. Order matters on both axes:
// the first keyword found anywhere in the text decides the category.
var Table = []rule{
	{Finance, []string{"bank", "pay", "rs", "transaction", "payment", "fund", "debit", "credit", "balance", "wallet", "upi", "amount", "currency", "invest"}},
	{Chats, []string{"message", "typing", "online", "last seen", "whatsapp", "telegram", "chat", "dm", "reply", "sent"}},
	{Shopping, []string{"cart", "order", "buy", "price", "discount", "offer", "delivery", "amazon", "flipkart", "myntra", "shop"}},
	{CodeTech, []string{"error", "bug", "code", "exception", "console", "terminal", "debug", "java", "python", "function", "class", "import", "const", "var"}},
	{SocialMedia, []string{"post", "like", "comment", "share", "instagram", "facebook", "twitter", "meme", "video", "reel", "story", "feed"}},
	{System, []string{"settings", "battery", "wifi", "bluetooth", "about device", "storage", "update", "notification"}},
	{Events, []string{"ticket", "booking", "movie", "show", "date", "venue", "stadium", "concert", "event"}},
	{Food, []string{"cook", "recipe", "ingredients", "food", "meal", "dish", "restaurant", "menu"}},
	{MapsTravel, []string{"map", "location", "navigate", "direction", "trip", "uber", "ola", "ride"}},
}

// Classify returns the first category whose keyword appears in the text,
// or Unsorted when nothing matches. Matching is case-insensitive and
// fully deterministic.
func Classify(text string) Category {
	lowered := strings.ToLower(text)
	for _, r := range Table {
		for _, keyword := range r.keywords {
			if strings.Contains(lowered, keyword) {
				return r.category
			}
		}
	}
	return Unsorted
}

// Parse coerces a free-form category name (as returned by the vision
// model) to a member of the enumeration. Unknown names become Unsorted.
func Parse(value string) Category {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	switch normalized {
	case "finance":
		return Finance
	case "chats", "chat":
		return Chats
	case "shopping":
		return Shopping
	case "code_tech", "code", "tech":
		return CodeTech
	case "social_media", "social":
		return SocialMedia
	case "system":
		return System
	case "events", "event":
		return Events
	case "food":
		return Food
	case "maps_travel", "maps", "travel":
		return MapsTravel
	case "videos", "video":
		return Videos
	default:
		return Unsorted
	}
}

// IsSentinel reports whether the category is one of the two fallback
// buckets rather than a concrete classification.
func IsSentinel(c Category) bool {
	return c == Unsorted || c == Videos
}

// Valid reports whether the value is a member of the enumeration,
// sentinels included.
func Valid(c Category) bool {
	if IsSentinel(c) {
		return true
	}
	for _, known := range All {
		if c == known {
			return true
		}
	}
	return false
}

// Directories returns every directory the intake tree carries: all
// concrete categories plus both sentinels.
func Directories() []Category {
	dirs := make([]Category, 0, len(All)+2)
	dirs = append(dirs, All...)
	dirs = append(dirs, Unsorted, Videos)
	return dirs
}
