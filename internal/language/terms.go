package language

// termSource is the curated vocabulary for one language. Directions are the
// standard performance markings (tempo, dynamics, articulation, character)
// that win ties for Italian when a surface form is shared.
type termSource struct {
	code       string
	directions []string
	terms      []string
	// ambiguous documents forms that are equally valid in other languages.
	ambiguous map[string][]string
	// suffixes are the inflectional or diminutive endings accepted on a known stem.
	suffixes []string
}

var italianTerms = termSource{
	code: "it",
	directions: []string{
		"piano", "pianissimo", "forte", "fortissimo", "mezzo forte", "mezzo piano",
		"fortepiano", "sforzando", "sforzato", "crescendo", "decrescendo", "diminuendo",
		"morendo", "smorzando", "calando", "perdendosi",
		"allegro", "adagio", "andante", "andantino", "largo", "larghetto", "lento",
		"presto", "prestissimo", "moderato", "vivace", "vivo", "grave", "a tempo",
		"accelerando", "ritardando", "rallentando", "ritenuto", "rubato", "stringendo",
		"tempo primo", "l'istesso tempo", "allegro ma non troppo", "ma non troppo",
		"legato", "staccato", "staccatissimo", "tenuto", "marcato", "portato",
		"pizzicato", "arco", "col legno", "sul ponticello", "sul tasto", "con sordino",
		"senza sordino", "tremolo", "glissando", "portamento", "fermata",
		"dolce", "cantabile", "espressivo", "con brio", "con moto", "con fuoco",
		"sostenuto", "sotto voce", "mezza voce", "maestoso", "animato", "agitato",
		"leggiero", "pesante", "tranquillo", "grazioso", "giocoso", "scherzando",
		"appassionato", "affettuoso", "lamentoso", "misterioso", "brillante",
		"subito", "poco", "poco a poco", "molto", "assai", "meno", "più", "piu",
		"sempre", "simile", "divisi", "tutti", "solo", "da capo", "dal segno",
		"al fine", "coda", "fine", "ad lib",
	},
	terms: []string{
		"tempo", "opera", "aria", "arioso", "recitativo", "libretto", "sonata",
		"sonatina", "concerto", "concerto grosso", "sinfonia", "cantata", "oratorio",
		"scherzo", "intermezzo", "toccata", "fuga", "partita", "capriccio", "serenata",
		"a cappella", "bel canto", "basso continuo", "continuo", "virtuoso", "maestro",
		"diva", "prima donna", "soprano", "mezzo-soprano", "contralto", "tenore",
		"basso", "castrato", "violino", "viola", "violoncello", "cello", "contrabbasso",
		"pianoforte", "timpani", "ostinato", "arpeggio", "cadenza", "coloratura",
		"falsetto", "vibrato", "obbligato", "ritornello", "madrigale", "canzone",
		"solfeggio", "stretto", "ripieno", "concertino", "opera buffa", "opera seria",
		"verismo", "stornello", "tarantella", "saltarello", "siciliana", "barcarola",
		"ma", "non", "troppo", "con", "senza",
	},
	suffixes: []string{"issimo", "issima", "amente", "mente", "etto", "etta", "ino", "ina", "one", "ando", "endo", "i", "e"},
}

var germanTerms = termSource{
	code: "de",
	directions: []string{
		"langsam", "schnell", "mäßig", "lebhaft", "kräftig", "zart", "innig", "ruhig",
		"bewegt", "frei", "heftig", "getragen", "etwas", "sehr", "immer", "nicht schleppen",
		"mit dämpfer", "zurückhaltend", "breit", "gemächlich",
	},
	terms: []string{
		"lied", "lieder", "leitmotiv", "kapellmeister", "konzertmeister", "singspiel",
		"gesamtkunstwerk", "sprechgesang", "sprechstimme", "klavier", "flügel", "geige",
		"bratsche", "posaune", "schlagzeug", "glockenspiel", "zwischenspiel", "vorspiel",
		"nachspiel", "walzer", "ländler", "choral", "kunstlied", "durchkomponiert",
		"klangfarbenmelodie", "zeitmaß", "dämpfer", "stimmung", "volkslied",
		"liederkreis", "liederbuch", "hauptstimme", "nebenstimme", "urtext",
		"heldentenor", "fach", "kammermusik", "spielmann", "minnesang", "meistersinger",
	},
	suffixes: []string{"chen", "lein", "er", "en", "es", "e"},
}

var frenchTerms = termSource{
	code: "fr",
	directions: []string{
		"vite", "lent", "modéré", "très", "cédez", "retenu", "animé", "doux", "en dehors",
		"un peu", "avec", "sans", "mouvement", "au mouvement", "sourdine", "en serrant",
		"librement", "léger", "vif",
	},
	terms: []string{
		"étude", "chanson", "ballet", "suite", "menuet", "gavotte", "bourrée", "gigue",
		"ouverture", "prélude", "nocturne", "rondeau", "musique concrète", "pas de deux",
		"grand opéra", "opéra comique", "opéra bouffe", "cor anglais", "hautbois",
		"clavecin", "timbre", "ensemble", "rigaudon", "passepied", "tambourin",
		"vaudeville", "divertissement", "ballade", "berceuse", "barcarolle", "romance",
		"mélodie", "solfège", "trouvère", "troubadour", "chanson de geste", "air de cour",
		"tombeau", "impromptu", "musette", "chaconne", "pavane", "basse danse",
		"notes inégales", "agrément", "et",
	},
	ambiguous: map[string][]string{
		"et": {"la"},
	},
	suffixes: []string{"ettes", "ette", "ment", "es", "s"},
}

var latinTerms = termSource{
	code: "la",
	terms: []string{
		"agnus dei", "kyrie", "kyrie eleison", "gloria", "credo", "sanctus", "benedictus",
		"requiem", "dies irae", "magnificat", "stabat mater", "te deum", "ave maria",
		"alleluia", "missa", "missa brevis", "missa solemnis", "cantus firmus", "ars nova",
		"ars antiqua", "organum", "tacet", "ad libitum", "in nomine", "nunc dimittis",
		"lux aeterna", "pange lingua", "sequentia", "tropus", "conductus", "clausula",
		"discantus", "tonus peregrinus", "musica ficta", "musica reservata", "opus",
		"introitus", "offertorium", "communio", "graduale", "tractus", "lacrimosa",
		"et", "et incarnatus est", "crucifixus", "dona nobis pacem", "salve regina",
	},
	ambiguous: map[string][]string{
		"et": {"fr"},
	},
	suffixes: []string{"orum", "ibus", "us", "um", "ae", "is"},
}

var englishTerms = termSource{
	code: "en",
	terms: []string{
		"chord", "scale", "harmony", "melody", "rhythm", "beat", "meter", "measure", "bar",
		"key", "pitch", "octave", "interval", "tone", "semitone", "note", "rest", "clef",
		"staff", "cadence", "counterpoint", "fugue", "symphony", "overture", "prelude",
		"anthem", "hymn", "ballad", "blues", "jazz", "swing", "ragtime", "bebop", "riff",
		"groove", "hook", "bridge", "chorus", "verse", "syncopation", "dynamics",
		"time signature", "key signature", "downbeat", "upbeat", "drum", "guitar", "bass",
		"trumpet", "trombone", "flute", "clarinet", "oboe", "bassoon", "horn", "harp",
		"organ", "violin", "saxophone", "piano", "tuning", "temperament", "mode",
		"improvisation", "arrangement", "orchestration", "songwriting", "fingerstyle",
		"strumming", "double stop", "backbeat", "shuffle", "walking bass",
		"call and response", "twelve-bar blues", "lead sheet", "fake book", "chord progression",
		"power chord", "barre chord", "hammer-on", "pull-off", "bend", "slide",
	},
	suffixes: []string{"ing", "ed", "es", "s"},
}

var spanishTerms = termSource{
	code: "es",
	terms: []string{
		"flamenco", "zarzuela", "bolero", "guitarra", "tango", "fandango", "seguidilla",
		"jota", "sevillanas", "bulerías", "soleá", "rasgueado", "alzapúa", "picado",
		"cante jondo", "copla", "villancico", "vihuela", "castañuelas", "cajón",
		"malagueña", "habanera", "pasodoble", "paso doble", "salsa", "son cubano",
		"ranchera", "mariachi", "corrido", "cumbia", "huapango", "bandoneón", "charango",
		"quena", "zapateado", "palmas", "compás", "duende", "falseta", "tiento", "farruca",
		"alegrías", "granaína", "petenera", "tonadilla", "rumba", "mambo", "merengue",
		"bachata", "danzón", "guajira", "décima", "punteado", "requinto", "tiple",
		"marimba", "güiro", "maracas", "sardana", "muiñeira",
	},
	suffixes: []string{"ito", "ita", "illo", "illa", "es", "s"},
}

// termSources lists the curated vocabularies in detection priority order.
var termSources = []termSource{
	italianTerms,
	germanTerms,
	frenchTerms,
	latinTerms,
	englishTerms,
	spanishTerms,
}

// orthographicCue describes spelling patterns typical of a language, used only
// when no curated list recognizes the term.
type orthographicCue struct {
	code     string
	contains []string
	suffixes []string
}

var orthographicCues = []orthographicCue{
	{code: "it", contains: []string{"zz", "cch", "gli", "gn"}, suffixes: []string{"zione", "etto", "etta", "ando", "endo", "issimo", "ino", "mente"}},
	{code: "de", contains: []string{"ß", "ä", "ö", "ü", "sch", "tz"}, suffixes: []string{"ung", "lich", "keit", "heit", "spiel", "lied"}},
	{code: "fr", contains: []string{"é", "è", "ê", "ç", "à", "û", "ô", "œ"}, suffixes: []string{"eau", "oire", "ique", "ette", "eur", "ée"}},
	{code: "la", contains: []string{"qu"}, suffixes: []string{"orum", "us", "um", "ae"}},
	{code: "en", contains: []string{"th", "wh", "ck"}, suffixes: []string{"ing", "ness", "ght", "ship"}},
	{code: "es", contains: []string{"ñ", "á", "í", "ó", "ú"}, suffixes: []string{"ción", "ito", "illo", "ero", "eño", "ada"}},
}
