package anachronism

// TechnologyPattern pairs a term pattern with the earliest year the concept
// exists. Patterns are written for Spanish narrative prose.
type TechnologyPattern struct {
	Pattern      string
	EarliestYear int
}

// TechnologyCategory groups patterns under a category label. Categories and
// patterns are ordered slices so detection order stays deterministic.
type TechnologyCategory struct {
	Name     string
	Patterns []TechnologyPattern
}

// DefaultTechnologyCategories returns the built-in technology table.
func DefaultTechnologyCategories() []TechnologyCategory {
	return []TechnologyCategory{
		{
			Name: "comunicaciones",
			Patterns: []TechnologyPattern{
				{`\bteléfono(?:s)?\b`, 1876},
				{`\bteléfono(?:s)?\s+móvil(?:es)?\b`, 1983},
				{`\bmóvil(?:es)?\b`, 1983},
				{`\bsmartphone(?:s)?\b`, 2007},
				{`\bcelu?lar(?:es)?\b`, 1983},
				{`\btelegrama(?:s)?\b`, 1844},
				{`\btelégrafo(?:s)?\b`, 1837},
				{`\bradio(?:s)?\b`, 1895},
				{`\btelevisión\b`, 1927},
				{`\btelevisor(?:es)?\b`, 1927},
				{`\binternet\b`, 1991},
				{`\bcorreo\s+electrónico\b`, 1971},
				{`\be-?mail(?:s)?\b`, 1971},
				{`\bwhatsapp\b`, 2009},
				{`\bredes\s+sociales\b`, 2004},
				{`\bfacebook\b`, 2004},
				{`\btwitter\b`, 2006},
				{`\binstagram\b`, 2010},
				{`\bwifi\b`, 1997},
				{`\bbluetooth\b`, 1998},
			},
		},
		{
			Name: "transporte",
			Patterns: []TechnologyPattern{
				{`\bautomóvil(?:es)?\b`, 1886},
				{`\bcoche(?:s)?\b`, 1886}, // "coche" also means carriage pre-1886
				{`\bcarro(?:s)?\b`, 1886}, // Latin American usage for car
				{`\bavión(?:es)?\b`, 1903},
				{`\bavioneta(?:s)?\b`, 1903},
				{`\bhelicóptero(?:s)?\b`, 1936},
				{`\btren(?:es)?\b`, 1825},
				{`\bferrocarril(?:es)?\b`, 1825},
				{`\bmetro\b`, 1863},
				{`\bmotocicleta(?:s)?\b`, 1885},
				{`\bmoto(?:s)?\b`, 1885},
				{`\bbicicleta(?:s)?\b`, 1817},
				{`\bsubmarino(?:s)?\b`, 1620}, // concept; practical ~1880
				{`\bcohete(?:s)?\s+espacial(?:es)?\b`, 1942},
			},
		},
		{
			Name: "iluminacion_energia",
			Patterns: []TechnologyPattern{
				{`\bbombilla(?:s)?\b`, 1879},
				{`\bluz\s+eléctrica\b`, 1879},
				{`\belectricidad\b`, 1752}, // concept; distribution ~1882
				{`\bcentral\s+(?:eléctrica|nuclear)\b`, 1882},
				{`\benergía\s+nuclear\b`, 1942},
				{`\bplaca(?:s)?\s+solar(?:es)?\b`, 1954},
			},
		},
		{
			Name: "medicina",
			Patterns: []TechnologyPattern{
				{`\bantibiótico(?:s)?\b`, 1928},
				{`\bpenicilina\b`, 1928},
				{`\bvacuna(?:s)?\b`, 1796},
				{`\banestesia\b`, 1846},
				{`\bradiografía(?:s)?\b`, 1895},
				{`\bradioterapia\b`, 1903},
				{`\btrasplante(?:s)?\b`, 1954},
				{`\bADN\b`, 1953},
			},
		},
		{
			Name: "informatica",
			Patterns: []TechnologyPattern{
				{`\bordenador(?:es)?\b`, 1946},
				{`\bcomputador(?:a|es)?\b`, 1946},
				{`\bportátil(?:es)?\b`, 1981},
				{`\blaptop(?:s)?\b`, 1981},
				{`\btablet(?:s|a|as)?\b`, 2010},
				{`\biPad(?:s)?\b`, 2010},
				{`\bpágina(?:s)?\s+web\b`, 1991},
				{`\bsitio(?:s)?\s+web\b`, 1991},
				{`\bbuscador(?:es)?\b`, 1993},
				{`\bGoogle\b`, 1998},
				{`\binteligencia\s+artificial\b`, 1956},
				{`\brobot(?:s)?\b`, 1920},
				{`\bsoftware\b`, 1958},
				{`\bhacker(?:s)?\b`, 1960},
				{`\bvideojuego(?:s)?\b`, 1958},
			},
		},
		{
			Name: "armas",
			Patterns: []TechnologyPattern{
				{`\bpólvora\b`, 850}, // China; reaches Europe ~1300
				{`\bfusil(?:es)?\b`, 1610},
				{`\bpistola(?:s)?\b`, 1540},
				{`\bametralladora(?:s)?\b`, 1862},
				{`\btanque(?:s)?\s+(?:de\s+guerra|militar(?:es)?|blindado(?:s)?)\b`, 1916},
				{`\bbomba(?:s)?\s+atómica(?:s)?\b`, 1945},
				{`\bbomba(?:s)?\s+nuclear(?:es)?\b`, 1945},
				{`\bmisil(?:es)?\b`, 1944},
				{`\bsubfusil(?:es)?\b`, 1918},
			},
		},
		{
			Name: "cotidiano",
			Patterns: []TechnologyPattern{
				{`\bgafas?\s+de\s+sol\b`, 1929},
				{`\breloj(?:es)?\s+de\s+pulsera\b`, 1868},
				{`\bascensor(?:es)?\b`, 1853},
				{`\bcremallera(?:s)?\b`, 1913},
				{`\bbolígrafo(?:s)?\b`, 1938},
				{`\bfotografía(?:s)?\b`, 1826},
				{`\bcámara(?:s)?\s+fotográfica(?:s)?\b`, 1826},
				{`\bcámara(?:s)?\s+de\s+fotos\b`, 1826},
				{`\bcigarrillo(?:s)?\b`, 1832},
				{`\bperiódico(?:s)?\b`, 1605},
			},
		},
	}
}

// EpochPattern maps a period expression to a year range. Start and End both
// zero marks the explicit-year pattern, whose range is derived from the
// captured year.
type EpochPattern struct {
	Pattern string
	Start   int
	End     int
}

// DefaultEpochPatterns returns the built-in narrative period table. More
// specific patterns win through range width, not table position, but order is
// kept stable for deterministic ties.
func DefaultEpochPatterns() []EpochPattern {
	return []EpochPattern{
		{`\bsiglo\s+I\b`, 1, 100},
		{`\bsiglo\s+II\b`, 101, 200},
		{`\bsiglo\s+III\b`, 201, 300},
		{`\bsiglo\s+IV\b`, 301, 400},
		{`\bsiglo\s+V\b`, 401, 500},
		{`\bsiglo\s+VI\b`, 501, 600},
		{`\bsiglo\s+VII\b`, 601, 700},
		{`\bsiglo\s+VIII\b`, 701, 800},
		{`\bsiglo\s+IX\b`, 801, 900},
		{`\bsiglo\s+X\b`, 901, 1000},
		{`\bsiglo\s+XI\b`, 1001, 1100},
		{`\bsiglo\s+XII\b`, 1101, 1200},
		{`\bsiglo\s+XIII\b`, 1201, 1300},
		{`\bsiglo\s+XIV\b`, 1301, 1400},
		{`\bsiglo\s+XV\b`, 1401, 1500},
		{`\bsiglo\s+XVI\b`, 1501, 1600},
		{`\bsiglo\s+XVII\b`, 1601, 1700},
		{`\bsiglo\s+XVIII\b`, 1701, 1800},
		{`\bsiglo\s+XIX\b`, 1801, 1900},
		{`\bsiglo\s+XX\b`, 1901, 2000},
		{`\bsiglo\s+XXI\b`, 2001, 2100},
		// Spanish historical eras
		{`\bReconquista\b`, 722, 1492},
		{`\bSiglo\s+de\s+Oro\b`, 1492, 1681},
		{`\bGuerra\s+Civil\b`, 1936, 1939},
		{`\bposguerra\b`, 1939, 1959},
		{`\bfranquismo\b`, 1939, 1975},
		{`\btransición\b`, 1975, 1982},
		{`\bEdad\s+Media\b`, 476, 1453},
		{`\bRenacimiento\b`, 1400, 1600},
		{`\bIlustración\b`, 1685, 1815},
		// Explicit year, range derived from the capture
		{`\ben\s+(?:el\s+año\s+)?(\d{3,4})\b`, 0, 0},
	}
}
