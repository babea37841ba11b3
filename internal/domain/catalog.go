package domain

// Item categories
const (
	CategoryFood      = "food"
	CategoryResources = "resources"
	CategoryWeapons   = "weapons"
	CategoryTools     = "tools"
	CategorySpecial   = "special"
)

// ValidCategories lists the known item categories
var ValidCategories = map[string]bool{
	CategoryFood:      true,
	CategoryResources: true,
	CategoryWeapons:   true,
	CategoryTools:     true,
	CategorySpecial:   true,
}

// Item is a catalog entry describing something a case can yield
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Rarity      Rarity `json:"rarity"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	SellPrice   int64  `json:"sell_price"`
	Description string `json:"description,omitempty"`
	TextureURL  string `json:"texture_url,omitempty"`
}

// Case is a purchasable container with a rarity distribution
type Case struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Icon        string        `json:"icon,omitempty"`
	Description string        `json:"description,omitempty"`
	Price       int64         `json:"price"`
	Weights     RarityWeights `json:"rarity_weights"`
	TextureURL  string        `json:"texture_url,omitempty"`
	Active      bool          `json:"is_active"`
}
