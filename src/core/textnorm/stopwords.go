package textnorm

// englishStopwords is the usual English function-word list. Tokens shorter
// than three runes are dropped before this check, so two-letter entries are
// omitted.
var englishStopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "any": {}, "can": {}, "had": {}, "her": {},
	"was": {}, "one": {}, "our": {}, "out": {}, "has": {}, "him": {},
	"his": {}, "how": {}, "man": {}, "new": {}, "now": {}, "old": {},
	"see": {}, "two": {}, "way": {}, "who": {}, "its": {}, "did": {},
	"get": {}, "may": {}, "she": {}, "use": {}, "your": {}, "than": {},
	"them": {}, "then": {}, "this": {}, "that": {}, "there": {}, "these": {},
	"those": {}, "they": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "with": {}, "would": {}, "could": {}, "should": {},
	"about": {}, "above": {}, "after": {}, "again": {}, "against": {},
	"been": {}, "before": {}, "being": {}, "below": {}, "between": {},
	"both": {}, "doing": {}, "down": {}, "during": {}, "each": {},
	"from": {}, "further": {}, "have": {}, "having": {}, "here": {},
	"hers": {}, "herself": {}, "himself": {}, "into": {}, "itself": {},
	"just": {}, "more": {}, "most": {}, "myself": {}, "once": {},
	"only": {}, "other": {}, "ours": {}, "ourselves": {}, "over": {},
	"same": {}, "some": {}, "such": {}, "their": {}, "theirs": {},
	"themselves": {}, "through": {}, "under": {}, "until": {}, "very": {},
	"were": {}, "whom": {}, "will": {}, "yours": {}, "yourself": {},
	"yourselves": {}, "because": {}, "does": {}, "don": {}, "own": {},
	"too": {}, "off": {}, "nor": {}, "why": {}, "few": {}, "ought": {},
	"shall": {}, "might": {}, "must": {},
}

// arabicStopwords holds common Arabic particles and pronouns. Entries are
// stored in letterform-normalized form (alef unified, taa marbuta and alef
// maksura folded) so they match after normalizeArabic has run.
var arabicStopwords = map[string]struct{}{
	"في":                               {}, // fi (in)
	"من":                               {}, // min (from)
	"الى":                         {}, // ila (to)
	"الي":                         {}, // ila, folded
	"على":                         {}, // ala (on)
	"علي":                         {}, // ala, folded
	"عن":                               {}, // an (about)
	"مع":                               {}, // maa (with)
	"هذا":                         {}, // hatha (this)
	"هذه":                         {}, // hathihi (this, fem)
	"ذلك":                         {}, // thalika (that)
	"تلك":                         {}, // tilka (that, fem)
	"التي":                   {}, // allati (which, fem)
	"الذي":                   {}, // allathi (which)
	"اللذان":       {}, // allathan (which, dual)
	"اللتان":       {}, // allatan (which, dual fem)
	"اللذين":       {}, // allathina (which, pl)
	"اللتين":       {}, // allatayn (which, pl fem)
	"هو":                               {}, // huwa (he)
	"هي":                               {}, // hiya (she)
	"ان":                               {}, // an/inna, folded
	"كان":                         {}, // kana (was)
	"كانت":                   {}, // kanat (was, fem)
	"لكن":                         {}, // lakin (but)
	"او":                               {}, // aw (or)
	"ام":                               {}, // am (or)
	"ما":                               {}, // ma (what/not)
	"لا":                               {}, // la (no)
}
