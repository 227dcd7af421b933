package classify

// freeFoodKeywords runs from high-confidence phrases to broad single words.
// The entries from "food" on are known to produce false positives ("food
// drive", "no drinks allowed") and are kept on purpose.
var freeFoodKeywords = []string{
	"free food",
	"free pizza",
	"free lunch",
	"free dinner",
	"free breakfast",
	"free brunch",
	"free snacks",
	"free drinks",
	"free coffee",
	"free donuts",
	"free doughnuts",
	"free ice cream",
	"free boba",
	"free tacos",
	"free burritos",
	"free cookies",
	"free treats",
	"free refreshments",
	"free meal",
	"food provided",
	"food will be provided",
	"food will be served",
	"lunch provided",
	"lunch will be provided",
	"dinner provided",
	"dinner will be provided",
	"breakfast provided",
	"refreshments provided",
	"refreshments will be provided",
	"refreshments will be served",
	"snacks provided",
	"snacks will be provided",
	"light refreshments",
	"complimentary",
	"catered",
	"pizza",
	"bagels",
	"donuts",
	"cookies",
	"ice cream",
	"refreshments",
	"food",
	"snacks",
	"drinks",
	"treats",
}

// housingPhrases mark events open only to residents.
var housingPhrases = []string{
	"residents only",
	"for residents of",
	"open to residents",
	"only open to residents",
	"residence hall residents",
	"res hall residents",
	"residential college members",
	"your floor",
	"floor program",
}

// housingCategories are platform category names used only for housing events.
var housingCategories = []string{
	"RA Floor Program",
	"Res College Cup",
	"Residential College or Community Event",
}
