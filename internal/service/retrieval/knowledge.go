package retrieval

// Entry is one curated piece of regional knowledge.
type Entry struct {
	ID        string
	Title     string
	Content   string
	Category  string
	Location  string
	Keywords  []string
	URL       string
	Publisher string
}

// Knowledge is the curated base, scored first on every retrieval.
var Knowledge = []Entry{
	{
		ID:       "kb-lodging-airport",
		Title:    "Lodging near Campo Grande International Airport",
		Content:  "Hotels near Campo Grande International Airport (CGR) line Avenida Duque de Caxias, about 7 km from downtown. Most offer 24-hour reception and airport transfer on request, which suits late arrivals and early departures to Bonito or the Pantanal.",
		Category: "hotel",
		Location: "campo grande",
		Keywords: []string{"hotel", "hotels", "lodging", "hospedagem", "pousada", "airport", "aeroporto", "stay", "dormir", "duque de caxias"},
	},
	{
		ID:       "kb-lodging-downtown",
		Title:    "Where to stay in downtown Campo Grande",
		Content:  "Downtown Campo Grande concentrates mid-range hotels around Avenida Afonso Pena, within walking distance of the Feira Central, the Mercadão and the Orla Morena. Business hotels fill up on weekdays, so book ahead.",
		Category: "hotel",
		Location: "campo grande",
		Keywords: []string{"hotel", "hotels", "lodging", "hospedagem", "centro", "downtown", "afonso pena", "stay"},
	},
	{
		ID:       "kb-lodging-bonito",
		Title:    "Pousadas and hotels in Bonito",
		Content:  "Bonito has guesthouses (pousadas), hostels and eco-resorts. Staying near Rua Coronel Pilad Rebuá puts restaurants and tour agencies in walking distance. Tours are sold through local agencies, so choose lodging close to one.",
		Category: "hotel",
		Location: "bonito",
		Keywords: []string{"bonito", "pousada", "pousadas", "hostel", "hotel", "lodging", "hospedagem", "resort"},
	},
	{
		ID:       "kb-dining-campo-grande",
		Title:    "Eating in Campo Grande",
		Content:  "Campo Grande's signature dish is sobá, a noodle soup brought by Okinawan immigrants and best tried at the Feira Central. Local steakhouses serve Pantanal beef, and chipa and sopa paraguaia show the Paraguayan influence.",
		Category: "restaurant",
		Location: "campo grande",
		Keywords: []string{"restaurant", "restaurants", "restaurante", "food", "comida", "eat", "comer", "dinner", "jantar", "sobá", "soba", "feira central", "gastronomia"},
	},
	{
		ID:       "kb-dining-bonito",
		Title:    "Eating in Bonito",
		Content:  "Restaurants in Bonito serve river fish such as pintado and pacu, often grilled or as ventrecha. Most are on the main street and open for dinner after the day tours return.",
		Category: "restaurant",
		Location: "bonito",
		Keywords: []string{"bonito", "restaurant", "restaurante", "food", "comida", "fish", "peixe", "pintado", "pacu"},
	},
	{
		ID:       "kb-bioparque",
		Title:    "Bioparque Pantanal",
		Content:  "Bioparque Pantanal in Campo Grande is one of the largest freshwater aquariums in the world, with species from the Pantanal and other river basins. Visits are free but need an online booking.",
		Category: "attraction",
		Location: "campo grande",
		Keywords: []string{"bioparque", "aquarium", "aquário", "attraction", "atração", "atrativo", "visit", "visitar", "campo grande"},
		URL:      "https://bioparquepantanal.ms.gov.br",
	},
	{
		ID:       "kb-lago-azul",
		Title:    "Gruta do Lago Azul",
		Content:  "Gruta do Lago Azul near Bonito is a limestone cave with a deep blue lake, a protected natural monument. The visit involves about 300 steps and runs with local guides only.",
		Category: "attraction",
		Location: "bonito",
		Keywords: []string{"gruta", "lago azul", "cave", "caverna", "bonito", "attraction", "atrativo", "passeio"},
	},
	{
		ID:       "kb-floating",
		Title:    "River floating in Bonito",
		Content:  "Snorkel floating in crystal-clear rivers such as the Rio Sucuri and Rio da Prata is Bonito's best known activity. Sunscreen and repellent are not allowed in the water and group sizes are controlled.",
		Category: "attraction",
		Location: "bonito",
		Keywords: []string{"flutuação", "floating", "snorkel", "rio sucuri", "rio da prata", "bonito", "mergulho", "ecoturismo", "ecotourism"},
	},
	{
		ID:       "kb-araras",
		Title:    "Buraco das Araras",
		Content:  "Buraco das Araras in Jardim is a huge sinkhole where red macaws nest. Early morning visits have the best bird activity and it pairs well with a Bonito itinerary.",
		Category: "attraction",
		Location: "jardim",
		Keywords: []string{"buraco das araras", "macaw", "araras", "sinkhole", "birdwatching", "jardim", "attraction"},
	},
	{
		ID:       "kb-pantanal",
		Title:    "Visiting the Pantanal",
		Content:  "The southern Pantanal is reached from Miranda, Aquidauana or Corumbá. Lodges run safaris, piranha fishing and night spotting. The dry season from July to October is best for wildlife and the wet season floods many roads.",
		Category: "tourism",
		Location: "pantanal",
		Keywords: []string{"pantanal", "safari", "safári", "wildlife", "fauna", "miranda", "aquidauana", "estrada parque", "fishing", "pesca"},
	},
	{
		ID:       "kb-airport-transfer",
		Title:    "Getting from the airport to downtown Campo Grande",
		Content:  "Campo Grande airport is about 15 minutes by taxi or app ride from downtown. City buses also stop on Avenida Duque de Caxias, in front of the terminal.",
		Category: "transport",
		Location: "campo grande",
		Keywords: []string{"airport", "aeroporto", "taxi", "táxi", "uber", "bus", "ônibus", "transfer", "transport", "transporte", "downtown", "centro"},
	},
	{
		ID:       "kb-bus-bonito",
		Title:    "Buses from Campo Grande to Bonito",
		Content:  "Intercity buses to Bonito leave from the Campo Grande bus terminal several times a day and take about five hours. Shared transfers and car rental are faster options.",
		Category: "transport",
		Location: "bonito",
		Keywords: []string{"bus", "ônibus", "rodoviária", "terminal", "bonito", "transfer", "car rental", "transport", "transporte"},
	},
	{
		ID:       "kb-festival-inverno",
		Title:    "Festival de Inverno de Bonito",
		Content:  "Bonito's winter festival takes place in July with free concerts, theater and crafts fairs. Lodging sells out early during the festival weekends.",
		Category: "event",
		Location: "bonito",
		Keywords: []string{"festival", "inverno", "winter", "evento", "event", "show", "bonito", "july", "julho"},
	},
	{
		ID:       "kb-when-to-visit",
		Title:    "When to visit Mato Grosso do Sul",
		Content:  "The dry months from May to September bring clearer rivers in Bonito and more visible wildlife in the Pantanal. Summer brings heavy rain and higher prices around holidays.",
		Category: "tourism",
		Location: "mato grosso do sul",
		Keywords: []string{"when", "quando", "season", "época", "weather", "clima", "travel", "viagem", "turismo", "tourism"},
	},
}
