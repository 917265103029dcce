package words

import "github.com/mcoot/partygames/internal/model"

// FallbackPairs are used when the supplier has nothing for the imposter games
var FallbackPairs = []model.WordPair{
	{Normal: "Pizza", Imposter: "Burger"},
	{Normal: "Ocean", Imposter: "Mountain"},
	{Normal: "Coffee", Imposter: "Tea"},
	{Normal: "Summer", Imposter: "Winter"},
	{Normal: "Music", Imposter: "Art"},
	{Normal: "Sun", Imposter: "Moon"},
	{Normal: "Book", Imposter: "Movie"},
	{Normal: "Cat", Imposter: "Dog"},
}

// FallbackCharades are used when the supplier has no charades words
var FallbackCharades = []string{
	"Dancing", "Swimming", "Reading", "Cooking", "Singing", "Running", "Sleeping", "Fishing",
	"Painting", "Football", "Basketball", "Tennis", "Elephant", "Butterfly", "Airplane", "Umbrella",
	"Telephone", "Pizza", "Birthday", "Christmas", "Rainbow", "Snowman", "Camping", "Surfing",
	"Guitar", "Piano", "Camera", "Bridge", "Mountain", "Dragon", "Treasure", "Pirate",
}

// FallbackSynonyms are used when the supplier has no synonyms words
var FallbackSynonyms = []string{
	"Happy", "Fast", "Big", "Cold", "Bright", "Quiet", "Strong", "Soft",
	"Clean", "Brave", "Calm", "Kind", "Smart", "Funny", "Loud", "Warm",
}
