package models

// PriceNotAvailable is the sentinel the backend emits when a scraped listing
// carries no usable price. Products with this price sort last under both
// price orderings.
const PriceNotAvailable = "Not Available"

// Product represents one recommendable item as delivered by the backend.
// Price is a pre-formatted display string, not a numeric amount. Rating and
// Reviews are absent for listings without review data. URL is the identity
// key for favourite matching; (Name, Price) is the dedup key at load time.
type Product struct {
	Name        string  `json:"name"`
	Image       string  `json:"image,omitempty"`
	Price       string  `json:"price"`
	Rating      *string `json:"rating,omitempty"`
	Reviews     *string `json:"reviews,omitempty"`
	URL         string  `json:"url"`
	IsFavourite bool    `json:"isFavourite"`
}

// SortKey enumerates the supported catalog orderings.
type SortKey string

const (
	SortRecommended    SortKey = "recommended"
	SortPriceLowToHigh SortKey = "priceLowToHigh"
	SortPriceHighToLow SortKey = "priceHighToLow"
	SortRating         SortKey = "rating"
)

// ParseSortKey maps a request parameter onto a SortKey, falling back to the
// default ordering for unknown values.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceLowToHigh, SortPriceHighToLow, SortRating:
		return SortKey(s)
	default:
		return SortRecommended
	}
}
