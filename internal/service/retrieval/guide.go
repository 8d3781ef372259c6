package retrieval

// Guide is the offline regional guide used when web search is unavailable
// or denied. Entries carry the publisher they were compiled from.
var Guide = []Entry{
	{
		ID:        "guide-cg-hotels",
		Title:     "Campo Grande accommodation overview",
		Content:   "The state tourism board lists business hotels downtown and near the airport, plus budget inns around the bus terminal. Airport-area hotels are the usual choice for one-night stopovers.",
		Category:  "hotel",
		Location:  "campo grande",
		Keywords:  []string{"hotel", "lodging", "hospedagem", "airport", "aeroporto", "stopover", "pernoite"},
		Publisher: "Fundtur MS",
	},
	{
		ID:        "guide-bonito-tours",
		Title:     "Booking tours in Bonito",
		Content:   "Every attraction in Bonito uses a voucher system with daily visitor limits. Tours are booked through accredited agencies, and popular ones sell out in high season.",
		Category:  "attraction",
		Location:  "bonito",
		Keywords:  []string{"bonito", "tour", "passeio", "voucher", "agency", "agência", "attraction", "atrativo"},
		Publisher: "Bonito Convention Bureau",
	},
	{
		ID:        "guide-cg-food",
		Title:     "Feira Central of Campo Grande",
		Content:   "The Feira Central opens from Wednesday to Sunday evenings with sobá stalls, regional crafts and live music. It is the most popular place to try local food.",
		Category:  "restaurant",
		Location:  "campo grande",
		Keywords:  []string{"feira central", "sobá", "food", "comida", "restaurant", "restaurante", "dinner", "jantar"},
		Publisher: "Prefeitura de Campo Grande",
	},
	{
		ID:        "guide-pantanal-access",
		Title:     "Pantanal access roads",
		Content:   "The Estrada Parque links the BR-262 to Corumbá through the Pantanal. Parts are unpaved and some bridges are wooden, so check conditions in the rainy season.",
		Category:  "transport",
		Location:  "pantanal",
		Keywords:  []string{"pantanal", "estrada parque", "road", "estrada", "corumbá", "drive", "car"},
		Publisher: "Fundtur MS",
	},
	{
		ID:        "guide-events",
		Title:     "Regional events calendar",
		Content:   "Main yearly events include the Festival de Inverno de Bonito in July and the Festival América do Sul in Corumbá. Dates are announced by the state culture foundation.",
		Category:  "event",
		Location:  "mato grosso do sul",
		Keywords:  []string{"event", "evento", "festival", "calendar", "agenda", "show"},
		Publisher: "Fundação de Cultura de MS",
	},
}
