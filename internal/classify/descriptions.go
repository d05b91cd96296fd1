package classify

// Undefined is reported when no rule matches.
const Undefined = "undefined typer"

var descriptions = map[string]string{
	"verbose typer":             "You write long, varied messages and rarely stop at one sentence.",
	"ranting typer":             "Long messages with a heavy negative tone. Something is clearly bothering you.",
	"neutral typer":             "Short, calm and mildly positive. You type at an unhurried pace.",
	"slammer":                   "Exclamation marks everywhere and keys held down. You type with your whole arm.",
	"energetic typer":           "Lots of exclamation marks. Your messages have a lot of energy.",
	"hasty typer":               "Very fast and brief. You fire off short messages without slowing down.",
	"pottymouth":                "Strong language and a sour mood. Your keyboard has heard things.",
	"formal typer":              "Proper capitalization and full stops. You write like it is going on the record.",
	"punctuator":                "You end a lot of thoughts with a period.",
	"excited typer":             "Stretched-out letters without the exclamation marks. Sooooo excited.",
	"all-caps typer":            "A large share of your text is in capital letters.",
	"happy typer":               "Fast and upbeat. You type with a smile.",
	"sleepy typer":              "Slow and quiet, with varied words and no exclamations.",
	"nervous typer":             "Many very short messages in quick succession.",
	"scripted typer":            "Lots of Enter, Tab and paste shortcuts. Your typing looks automated.",
	"copy-paste typer":          "More than a thousand words. Some of that was probably pasted.",
	"chronically typing typer":  "Fast, long and frequent. You are always typing.",
	"academic typer":            "Long words and many sentences, without exclamation marks.",
	"emojinal typer":            "Plenty of emoji and a positive mood.",
	"doomer typer":              "Bleak words and a negative tone. Why bother, right?",
	"sarcastic typer":           "Plenty of positive words in an overall negative message.",
	"troll typer":               "A sprinkle of praise buried in a pile of negativity.",
	"baby typer":                "Tiny words, tiny messages and a small vocabulary.",
	"stream-of-conscious typer": "Long text with no full stops and hardly any capitals.",
	Undefined:                   "Not enough signal yet. Keep typing.",
}

// Describe returns the description for a category name, or an empty string
// when the name is unknown.
func Describe(name string) string {
	return descriptions[name]
}

// Descriptions returns a copy of the built-in description table.
func Descriptions() map[string]string {
	out := make(map[string]string, len(descriptions))
	for k, v := range descriptions {
		out[k] = v
	}
	return out
}
