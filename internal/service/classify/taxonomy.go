package classify

import "github.com/sandevgo/guata/internal/core"

type group struct {
	name     string
	keywords []string
}

// Conversation topics, checked in order.
var topics = []group{
	{"lodging", []string{"hotel", "pousada", "hospedagem", "dormir", "pernoitar", "lodging", "accommodation", "hostel", "inn", "stay"}},
	{"transport", []string{"transporte", "ônibus", "onibus", "táxi", "taxi", "uber", "carro", "avião", "voo", "aeroporto", "bus", "flight", "car rental", "transfer", "airport"}},
	{"dining", []string{"restaurante", "comida", "comer", "jantar", "almoço", "gastronomia", "restaurant", "food", "eat", "dinner", "lunch", "cuisine"}},
	{"campo grande", []string{"campo grande", "capital", "cidade morena"}},
	{"pantanal", []string{"pantanal", "fauna", "pesca", "safári", "safari", "animais", "wildlife", "fishing"}},
	{"bonito", []string{"bonito", "gruta", "rio sucuri", "ecoturismo", "mergulho", "snorkel", "cave", "ecotourism"}},
}

// Learning and retrieval categories, checked in order.
var categories = []group{
	{"hotel", []string{"hotel", "hospedagem", "pousada", "lodging", "accommodation", "hostel", "resort"}},
	{"restaurant", []string{"restaurante", "comida", "gastronomia", "restaurant", "food", "eat", "dining", "cuisine"}},
	{"event", []string{"evento", "festival", "festa", "show", "event", "concert"}},
	{"transport", []string{"ônibus", "onibus", "transporte", "táxi", "taxi", "bus", "transport", "flight", "voo"}},
	{"attraction", []string{"fazer", "atrativo", "atração", "passeio", "visitar", "attraction", "visit", "tour", "sightseeing", "things to do"}},
	{"tourism", []string{"turismo", "viagem", "tourism", "travel", "trip"}},
}

const CategoryGeneral = "general"

var intents = []group{
	{"comparison", []string{"diferença", "comparar", "versus", "melhor entre", "difference", "compare", " vs "}},
	{"information", []string{"o que é", "me fale sobre", "explique", "conta sobre", "what is", "tell me about", "explain"}},
	{"search", []string{"onde", "como encontrar", "preciso de", "where", "how to find", "i need"}},
	{"recommendation", []string{"recomenda", "sugere", "indique", "melhor", "recommend", "suggest", "best"}},
}

var (
	positiveWords = []string{"ótimo", "excelente", "adorei", "maravilhoso", "perfeito", "great", "excellent", "loved", "wonderful", "perfect", "amazing"}
	negativeWords = []string{"ruim", "péssimo", "terrível", "odeio", "horrível", "bad", "terrible", "hate", "awful", "horrible"}
)

var (
	cities      = []string{"campo grande", "bonito", "corumbá", "dourados", "três lagoas", "aquidauana", "miranda"}
	attractions = []string{"pantanal", "gruta do lago azul", "rio sucuri", "buraco das araras", "bioparque", "abismo anhumas"}
)

var specificKeywords = []string{
	"hotel", "pousada", "restaurante", "aeroporto", "campo grande", "bonito", "pantanal", "como chegar", "preço",
	"horário", "endereço", "transporte", "ônibus", "táxi", "uber", "voo", "rodoviária",
	"lodging", "restaurant", "airport", "how to get", "price", "opening hours", "address", "bus", "flight",
}

var correctionKinds = []struct {
	kind     core.CorrectionKind
	keywords []string
}{
	{core.CorrectionFactual, []string{"errado", "incorreto", "na verdade", "o correto", "correto é", "não existe", "wrong", "incorrect", "not true", "actually", "the correct", "doesn't exist", "does not exist"}},
	{core.CorrectionRelevance, []string{"não perguntei", "irrelevante", "fora do assunto", "não é isso", "not what i asked", "irrelevant", "off topic", "unrelated", "didn't ask"}},
	{core.CorrectionCompleteness, []string{"faltou", "incompleto", "mais detalhes", "esqueceu", "também", "missing", "incomplete", "more detail", "forgot", "left out", "also"}},
	{core.CorrectionTone, []string{"grosseiro", "educado", "seco", "formal", "tom ", "rude", "polite", "friendly", "tone"}},
}

var interests = []group{
	{"ecotourism", []string{"natureza", "trilha", "cachoeira", "ecoturismo", "flutuação", "bonito", "pantanal", "nature", "hiking", "trail", "waterfall", "wildlife", "ecotourism", "birdwatching"}},
	{"gastronomy", []string{"comida", "restaurante", "gastronomia", "prato", "culinária", "food", "restaurant", "cuisine", "dish", "dining"}},
	{"adventure", []string{"aventura", "rapel", "mergulho", "rafting", "tirolesa", "adventure", "diving", "rappel", "zipline"}},
	{"culture", []string{"cultura", "museu", "história", "indígena", "artesanato", "festival", "culture", "museum", "history", "indigenous", "crafts"}},
}

var emotions = []struct {
	state    core.EmotionalState
	keywords []string
}{
	{core.EmotionUrgent, []string{"urgente", "rápido", "agora", "hoje", "urgent", "asap", "right now", "today", "quickly"}},
	{core.EmotionFrustrated, []string{"não funciona", "frustrado", "irritado", "de novo", "frustrated", "annoyed", "useless", "doesn't work", "not working"}},
	{core.EmotionConfused, []string{"confuso", "não entendi", "como assim", "perdido", "confused", "don't understand", "lost", "unclear"}},
	{core.EmotionExcited, []string{"animado", "mal posso esperar", "incrível", "uau", "excited", "can't wait", "amazing", "wow"}},
	{core.EmotionHappy, []string{"obrigado", "obrigada", "adorei", "perfeito", "feliz", "thanks", "thank you", "loved", "perfect", "happy"}},
	{core.EmotionCurious, []string{"curioso", "como funciona", "por que", "curiosidade", "curious", "why", "how does", "wonder"}},
}

var tones = []struct {
	tone     core.Tone
	keywords []string
}{
	{core.ToneFormal, []string{"senhor", "senhora", "por gentileza", "poderia", "gostaria", "prezado", "could you", "would you", "kindly", "sir", "madam"}},
	{core.ToneEnthusiastic, []string{"incrível", "uau", "amazing", "awesome", "wow"}},
	{core.ToneCalm, []string{"tranquilo", "calmo", "sem pressa", "no rush", "calm", "peaceful", "relaxing"}},
	{core.ToneCasual, []string{"oi", "e aí", "beleza", "valeu", "hey", "hi", "cool"}},
}
