package config

// StorytellerPrompt is the generation template. It embeds the retrieved
// context and the user's question; the two %s verbs are filled in that order.
const StorytellerPrompt = `You are "Ask The Storytell AI" — a witty, sarcastic, and highly entertaining storyteller who is an EXPERT on classic literature.

Your personality:
- You're clever, sarcastic, and love adding humorous commentary
- You tell stories with dramatic flair and comedic timing
- You use emojis sparingly but effectively
- You stay STRICTLY grounded in the actual story content provided in the context
- You keep answers concise (2-4 sentences max)
- You NEVER make up information - you ONLY use what's in the context below

CRITICAL RULES:
1. READ the context carefully - it contains actual excerpts from the books
2. Answer ONLY based on what is explicitly stated in the context
3. Quote specific details, character names, and events from the context
4. If the context mentions a specific scene or dialogue, reference it directly
5. Add your witty commentary AFTER stating the facts from the book
6. If the context doesn't contain enough information, say so humorously

Context from the storybooks:
%s

User's question: %s

Respond as the witty storyteller (USE THE CONTEXT ABOVE - don't make things up):`

// SupportedLanguages maps language codes to the names used in the
// "respond entirely in X" instruction.
var SupportedLanguages = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"hi": "Hindi",
	"ar": "Arabic",
	"zh": "Chinese",
	"ja": "Japanese",
}

// FallbackMessages are returned verbatim when a query is not grounded in the
// corpus. Languages without an entry fall back to English.
var FallbackMessages = map[string]string{
	"en": "Whoa, hold up! 🤚 That's not in my storybook collection. I'm here to dish out tales about Alice's rabbit-hole adventures and Gulliver's giant problems — not to solve the mysteries of the universe! Try asking me something from the classic stories I actually know! 📚✨",
	"es": "¡Espera, detente! 🤚 Eso no está en mi colección de cuentos. Estoy aquí para contar historias sobre las aventuras de Alicia en el país de las maravillas y los problemas gigantes de Gulliver, ¡no para resolver los misterios del universo! ¡Pregúntame algo de los cuentos clásicos que realmente conozco! 📚✨",
	"fr": "Whoa, arrêtez! 🤚 Ce n'est pas dans ma collection de livres d'histoires. Je suis ici pour raconter des histoires sur les aventures d'Alice au pays des merveilles et les problèmes géants de Gulliver - pas pour résoudre les mystères de l'univers! Demandez-moi quelque chose des histoires classiques que je connais vraiment! 📚✨",
	"de": "Moment mal! 🤚 Das ist nicht in meiner Geschichtenbuch-Sammlung. Ich bin hier, um Geschichten über Alices Abenteuer im Wunderland und Gullivers Riesenprobleme zu erzählen - nicht um die Geheimnisse des Universums zu lösen! Frag mich etwas aus den klassischen Geschichten, die ich wirklich kenne! 📚✨",
	"hi": "रुको, ठहरो! 🤚 यह मेरी कहानियों के संग्रह में नहीं है। मैं यहाँ एलिस के अद्भुत देश के रोमांच और गुलिवर की विशाल समस्याओं की कहानियाँ सुनाने के लिए हूँ - ब्रह्मांड के रहस्यों को सुलझाने के लिए नहीं! मुझसे उन क्लासिक कहानियों के बारे में पूछें जो मैं वास्तव में जानता हूँ! 📚✨",
}

// FallbackMessage returns the not-grounded reply for the given language code.
func FallbackMessage(language string) string {
	if msg, ok := FallbackMessages[language]; ok {
		return msg
	}
	return FallbackMessages["en"]
}

// SuggestedQuestions feed the frontend's suggestion pills.
var SuggestedQuestions = []string{
	"What was the weirdest moment at the Mad Hatter's tea party?",
	"Tell me about Alice's encounter with the Cheshire Cat",
	"What happened when Gulliver woke up in Lilliput?",
	"How did Alice change sizes in Wonderland?",
	"What was the Queen of Hearts obsessed with?",
	"Describe Gulliver's visit to the land of giants",
	"What did the Caterpillar tell Alice?",
	"Why was the Mock Turtle so sad?",
	"What bizarre games did they play in Wonderland?",
	"How did Gulliver escape from Lilliput?",
}
