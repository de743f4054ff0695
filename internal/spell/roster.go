package spell

var defaultRoster = []Definition{
	{
		Name:          "Accio",
		Description:   "A charm that allows the caster to summon an object",
		Actions:       []string{"summon", "summoned"},
		Pronunciation: "ˈæksioʊ",
	},
	{
		Name:          "Alohomora",
		Description:   "A spell to open locks",
		Actions:       []string{"open", "unlock", "opened", "unlocked"},
		Pronunciation: "əˌloʊhəˈmɔərə",
	},
	{
		Name:          "Expelliarmus",
		Description:   "A spell that removes an object (often a wand) from the recipient's hand",
		Actions:       []string{"remove", "removed"},
		Pronunciation: "ɛksˌpɛliˈɑːrməs",
	},
	{
		Name:          "Impedimenta",
		Description:   "A spell to stop or slow down any person or creature by temporarily immobilising them",
		Actions:       []string{"stop", "slow down", "immobilize"},
		Pronunciation: "ɪmˌpɛdᵻˈmɛntə",
	},
	{
		Name:          "Lumos",
		Description:   "A spell that lights up dark places at the flick of a wand",
		Actions:       []string{"brighten", "bright", "light up", "illuminate"},
		Pronunciation: "ˈljuːmɒs",
	},
	{
		Name:          "Nox",
		Description:   "Counter charm to the Lumos spell. This spell causes the light at the end of the caster's wand to be extinguished",
		Actions:       []string{"extinguish", "dark"},
		Pronunciation: "ˈnɒks",
	},
	{
		Name:          "Obliviate",
		Description:   "A charm that hides a memory of a particular event",
		Actions:       []string{"hide"},
		Pronunciation: "oʊˈblɪvieɪt",
	},
	{
		Name:          "Petrificus Totalus",
		Description:   "Also known as The Full Body-Bind, this spell paralyses the victim",
		Actions:       []string{"paralyze"},
		Pronunciation: "pɛˈtrɪfᵻkəs toʊˈtæləs",
	},
	{
		Name:          "Reparo",
		Description:   "This spell repairs broken or damaged objects",
		Actions:       []string{"repair", "repaired", "fix", "fixed"},
		Pronunciation: "rɛˈpɑːroʊ",
	},
	{
		Name:          "Silencio",
		Description:   "This spell silences something immediately",
		Actions:       []string{"silence", "quite", "shut up", "silent"},
		Pronunciation: "sɪˈlɛnsioʊ",
	},
	{
		Name:          "Wingardium Leviosa",
		Description:   "This spell leviates an object off the ground and moved according to the caster",
		Actions:       []string{"leviate", "fly", "float"},
		Pronunciation: "wɪŋˈɡɑːrdiəm ˌlɛviˈoʊsə",
	},
}

// DefaultRoster returns a copy of the built-in eleven-spell roster.
func DefaultRoster() []Definition {
	out := make([]Definition, len(defaultRoster))
	for i, def := range defaultRoster {
		def.Actions = append([]string(nil), def.Actions...)
		out[i] = def
	}
	return out
}

// Default builds a catalog holding the built-in roster. Construction is
// deterministic, so callers may build it per request or share one instance.
func Default(opts ...Option) *Catalog {
	c := NewCatalog(opts...)
	for _, def := range defaultRoster {
		c.Register(def.Name, def.Description, def.Actions, def.Pronunciation)
	}
	return c
}
