package content

// Post is a journal entry. Body is split into paragraphs.
type Post struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Paragraphs []string `json:"paragraphs"`
	Author     string   `json:"author"`
	Date       string   `json:"date"`
	Category   string   `json:"category"`
	Image      string   `json:"image"`
}

// StaticPosts is served whenever the content API is unset or unusable.
func StaticPosts() []Post {
	return []Post{
		{
			ID:      1,
			Title:   "5 Secret Wine Spots in Alentejo",
			Excerpt: "Forget the big commercial wineries. Here’s where the locals go to drink talha wine straight from the clay pot.",
			Paragraphs: []string{
				"Alentejo is famous for its vast vineyards, but the real magic happens in the small adegas.",
				"In this guide, we take you off the beaten path to discover Vinho de Talha, an ancient Roman tradition of making wine in large clay pots that has survived in Alentejo for over 2,000 years.",
				"1. Adega do Mestre",
				"Located in a tiny village, this spot offers... (Full article content would go here).",
			},
			Author:   "Felippe Santos",
			Date:     "Jan 12, 2026",
			Category: "Wine & Drink",
			Image:    "https://images.unsplash.com/photo-1510812431401-41d2bd2722f3?w=800&h=600&fit=crop",
		},
		{
			ID:         101,
			Title:      "Meet Maria: Born in the Vineyards",
			Excerpt:    "Our wine specialist Maria shares how growing up in Reguengos shaped her palate and why Talha wine is more than just a drink.",
			Paragraphs: []string{"Growing up, the harvest wasn't just work; it was a festival. I remember the smell of the crushed grapes..."},
			Author:     "Maria Costa",
			Date:       "Jan 10, 2026",
			Category:   "Team Stories",
			Image:      "https://images.unsplash.com/photo-1544005313-94ddf0286df2?w=800&h=600&fit=crop",
		},
		{
			ID:         2,
			Title:      "Why Évora is the Capital of Culture 2027",
			Excerpt:    "The city is buzzing with preparation. From restored heritage sites to new art installations, see what's changing.",
			Paragraphs: []string{"Évora has always been a museum city, but 2027 marks a new era..."},
			Author:     "Maria Costa",
			Date:       "Jan 05, 2026",
			Category:   "Culture",
			Image:      "https://images.unsplash.com/photo-1590076215667-875d4e0ce5a0?w=800&h=600&fit=crop",
		},
		{
			ID:         102,
			Title:      "Meet João: The History Geek",
			Excerpt:    "João can talk for hours about the Temple of Diana. Find out why he traded an academic career for the streets of Évora.",
			Paragraphs: []string{"History books are great, but the stones of Évora speak louder. I wanted to tell the stories that aren't written down..."},
			Author:     "João Silva",
			Date:       "Jan 02, 2026",
			Category:   "Team Stories",
			Image:      "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=800&h=600&fit=crop",
		},
		{
			ID:         3,
			Title:      "Bifana: The Story Behind the Sandwich",
			Excerpt:    "It looks simple, but the bifana is a religion in Portugal. We trace the history of the country's favorite pork sandwich.",
			Paragraphs: []string{"Garlic, wine, paprika, and pork. The four pillars of happiness..."},
			Author:     "Felippe Santos",
			Date:       "Dec 28, 2025",
			Category:   "Food History",
			Image:      "https://images.unsplash.com/photo-1627308595229-7830a5c91f9f?w=800&h=600&fit=crop",
		},
		{
			ID:         103,
			Title:      "Meet Ana: From Chef to Guide",
			Excerpt:    "Why Ana left a professional kitchen to walk the markets of Évora with our guests.",
			Paragraphs: []string{"In a restaurant, I was hidden away. I missed the look on people's faces when they taste something new..."},
			Author:     "Ana Ferreira",
			Date:       "Dec 20, 2025",
			Category:   "Team Stories",
			Image:      "https://images.unsplash.com/photo-1589156280159-27698a70f29e?w=800&h=600&fit=crop",
		},
		{
			ID:         4,
			Title:      "A Guide to Portuguese Cheese",
			Excerpt:    "Queijo de Ovelha, Nisa, Serpa. Confused by the cheese counter? Here is your cheat sheet to Alentejo cheese.",
			Paragraphs: []string{"Cheese in Alentejo is intense, salty, and often runny..."},
			Author:     "Maria Costa",
			Date:       "Nov 30, 2025",
			Category:   "Food History",
			Image:      "https://images.unsplash.com/photo-1486297678162-eb2a19b0a32d?w=800&h=600&fit=crop",
		},
		{
			ID:         5,
			Title:      "Sweet Truths: Conventual Desserts",
			Excerpt:    "Why do all Portuguese desserts use egg yolks? The answer lies in the convents and monasteries of the 15th century.",
			Paragraphs: []string{"It started with egg whites being used to starch nun's habits..."},
			Author:     "Felippe Santos",
			Date:       "Dec 15, 2025",
			Category:   "Food History",
			Image:      "https://images.unsplash.com/photo-1559339352-11d035aa65de?w=800&h=600&fit=crop",
		},
	}
}
