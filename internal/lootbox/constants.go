package lootbox

// Log messages
const (
	LogMsgRarityDrawn       = "Rarity drawn"
	LogMsgItemPicked        = "Item picked"
	LogMsgEmptyRarityPool   = "Drawn rarity has no catalog items"
	LogMsgInvalidWeightsFmt = "Invalid rarity weights for case %d"
)
