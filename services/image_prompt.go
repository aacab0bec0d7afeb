package services

import "strings"

// sceneKeyword maps a story keyword to a descriptive clause. The list is
// ordered: matches are collected in this order, so prompt construction is
// deterministic for a given input text.
type sceneKeyword struct {
	keyword string
	scene   string
}

var sceneKeywords = []sceneKeyword{
	{"alice", "Alice, young Victorian girl in blue dress with white apron"},
	{"wonderland", "magical Wonderland with strange creatures and talking animals"},
	{"rabbit", "white rabbit wearing waistcoat with pocket watch, running"},
	{"queen", "Queen of Hearts with playing card soldiers, red and black"},
	{"hatter", "Mad Hatter at tea party with oversized hat, teacups everywhere"},
	{"cheshire", "Cheshire Cat with wide grin, purple stripes, disappearing"},
	{"caterpillar", "blue caterpillar smoking hookah on giant mushroom"},
	{"gulliver", "Gulliver the explorer in 18th century clothing"},
	{"lilliput", "tiny Lilliputian people, miniature buildings, giant human"},
	{"giant", "enormous giants, Brobdingnagians, tiny human"},
	{"travel", "sailing ship, ocean voyage, exotic lands"},
	{"tea party", "mad tea party with March Hare, Dormouse, chaotic table setting"},
	{"arabian", "Arabian Nights, middle eastern palace, ornate decorations"},
	{"aladdin", "Aladdin with magic lamp, genie, flying carpet"},
	{"sinbad", "Sinbad the sailor, ship, sea monsters"},
	{"scheherazade", "Scheherazade storytelling, sultan, Arabian palace"},
	{"genie", "magical genie emerging from lamp, smoke, wishes"},
}

const maxSceneElements = 3

const imageStyle = "vintage storybook illustration, detailed ink drawing with watercolor, whimsical fantasy art, Arthur Rackham style, classic children's literature, intricate details, magical atmosphere"

const genericScene = "classic storybook scene"

// BuildImagePrompt derives a scene description from the question and answer
// by scanning for known story keywords. This is a lookup, not a generative
// step: identical input always yields an identical prompt.
func BuildImagePrompt(question, answer string) string {
	combined := strings.ToLower(question + " " + answer)

	var found []string
	for _, kw := range sceneKeywords {
		if strings.Contains(combined, kw.keyword) {
			found = append(found, kw.scene)
			if len(found) == maxSceneElements {
				break
			}
		}
	}

	scene := genericScene
	if len(found) > 0 {
		scene = strings.Join(found, ", ")
	}
	return scene + ", " + imageStyle
}
