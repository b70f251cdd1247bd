// Package catalog holds the fixed lists the application offers for selection:
// recognized hashtags, entry categories, and reaction emojis.
//
// Catalog membership is advisory. A tag outside CommonTags is still accepted
// and stored; only its spelling is normalized (see NormalizeTag).
package catalog

// CommonTags is the ordered list of suggested hashtags.
var CommonTags = []string{
	"1111", "222", "333", "crow", "owl", "whitefeather",
	"locationwink", "briarbrook", "mirror", "divinetiming",
	"angelnumber", "repeatingnumber", "signs", "songlyric",
	"bibleverse", "spiritanimal", "dreamsymbol", "licenseplate",
	"billboard", "randomencounter", "randomtext", "meaningfulglitch",
	"unexpectedcall",
}

// Category is a selectable entry category.
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Categories is the ordered list of entry categories.
var Categories = []Category{
	{Value: "numbers", Label: "Numbers"},
	{Value: "meeting", Label: "Meeting/Encounter"},
	{Value: "coincidence", Label: "Coincidence"},
	{Value: "sign", Label: "Sign/Symbol"},
	{Value: "dream", Label: "Dream"},
	{Value: "other", Label: "Other"},
}

// ReactionEmojis are the supported reaction symbols in display order.
var ReactionEmojis = []string{"❤️", "✨", "🔮"}

// IsKnownTag reports whether tag (already normalized) is in CommonTags.
func IsKnownTag(tag string) bool {
	return contains(CommonTags, tag)
}

// IsCategory reports whether value names one of Categories.
func IsCategory(value string) bool {
	for _, c := range Categories {
		if c.Value == value {
			return true
		}
	}
	return false
}

// IsReactionEmoji reports whether emoji is one of ReactionEmojis.
func IsReactionEmoji(emoji string) bool {
	return contains(ReactionEmojis, emoji)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
