package cipher

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// minReplaceLen is the shortest token word replacement touches.
const minReplaceLen = 3

// peacefulWords buckets benign replacements by token length. Some buckets
// carry words of another length or duplicates; lookups only use the bucket
// key, so that is harmless.
var peacefulWords = map[int][]string{
	3:  {"joy", "sun", "sky", "sea", "day", "fun", "run", "fly", "hop", "dip"},
	4:  {"love", "hope", "calm", "kind", "warm", "soft", "play", "sing", "dance", "smile"},
	5:  {"peace", "happy", "light", "dream", "smile", "heart", "music", "dance", "laugh", "shine"},
	6:  {"gentle", "bright", "warmth", "wisdom", "beauty", "nature", "freedom", "healing", "kindness", "harmony"},
	7:  {"serene", "peaceful", "joyful", "hopeful", "loving", "caring", "healing", "blessed", "wonderful", "magical"},
	8:  {"tranquil", "graceful", "peaceful", "wonderful", "beautiful", "harmonious", "radiant", "glorious", "peaceful", "serenity"},
	9:  {"beautiful", "wonderful", "peaceful", "harmonious", "radiant", "glorious", "serenity", "tranquility", "happiness", "joyfulness"},
	10: {"peacefulness", "tranquility", "serenity", "happiness", "joyfulness", "wonderment", "beautiful", "harmonious", "radiant", "glorious"},
	11: {"peacefulness", "tranquility", "serenity", "happiness", "joyfulness", "wonderment", "beautiful", "harmonious", "radiant", "glorious"},
	12: {"peacefulness", "tranquility", "serenity", "happiness", "joyfulness", "wonderment", "beautiful", "harmonious", "radiant", "glorious"},
}

const maxBucket = 12

// Pair is one original → replacement assignment.
type Pair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WordMap records the replacements chosen while encoding. Assignment order
// is kept so inversion and listings are deterministic.
type WordMap struct {
	rand Rand
	keys []string
	m    map[string]string
}

// NewWordMap returns an empty map drawing new replacements from r. A nil r
// always takes the first free word of a bucket.
func NewWordMap(r Rand) *WordMap {
	return &WordMap{rand: r, m: map[string]string{}}
}

// WordMapOf rebuilds a map from recorded pairs, e.g. a decoded transport payload.
func WordMapOf(pairs []Pair) *WordMap {
	w := NewWordMap(nil)
	for _, p := range pairs {
		w.set(p.From, p.To)
	}
	return w
}

func (w *WordMap) set(from, to string) {
	if _, ok := w.m[from]; !ok {
		w.keys = append(w.keys, from)
	}
	w.m[from] = to
}

// Assign returns the replacement for word, choosing one on first sight.
// Words shorter than three characters are returned unchanged.
func (w *WordMap) Assign(word string) string {
	n := utf8.RuneCountInString(word)
	if n < minReplaceLen {
		return word
	}
	if to, ok := w.m[word]; ok {
		return to
	}
	bucket := peacefulWords[min(n, maxBucket)]

	used := make(map[string]struct{}, len(w.m))
	for _, v := range w.m {
		used[v] = struct{}{}
	}
	free := make([]string, 0, len(bucket))
	for _, c := range bucket {
		if _, taken := used[c]; !taken {
			free = append(free, c)
		}
	}
	// bucket exhausted: start reusing
	if len(free) == 0 {
		free = bucket
	}

	pick := 0
	if w.rand != nil {
		pick = w.rand.IntN(len(free))
	}
	w.set(word, free[pick])
	return free[pick]
}

// Len is the number of assigned originals.
func (w *WordMap) Len() int {
	if w == nil {
		return 0
	}
	return len(w.keys)
}

// Pairs lists assignments in the order they were made.
func (w *WordMap) Pairs() []Pair {
	if w == nil {
		return nil
	}
	out := make([]Pair, 0, len(w.keys))
	for _, k := range w.keys {
		out = append(out, Pair{From: k, To: w.m[k]})
	}
	return out
}

// Inverse maps replacement → original. When a replacement was reused, the
// later assignment wins.
func (w *WordMap) Inverse() map[string]string {
	inv := make(map[string]string, w.Len())
	for _, p := range w.Pairs() {
		inv[p.To] = p.From
	}
	return inv
}

// Shuffled returns a copy listing the same pairs in a random order.
func (w *WordMap) Shuffled(r Rand) *WordMap {
	pairs := w.Pairs()
	for i := len(pairs) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		pairs[i], pairs[j] = pairs[j], pairs[i]
	}
	return WordMapOf(pairs)
}

func (w *WordMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Pairs())
}

func (w *WordMap) UnmarshalJSON(b []byte) error {
	var pairs []Pair
	if err := json.Unmarshal(b, &pairs); err != nil {
		return err
	}
	*w = *WordMapOf(pairs)
	return nil
}

// String renders the map as {'orig': 'repl', ...}.
func (w *WordMap) String() string {
	parts := make([]string, 0, w.Len())
	for _, p := range w.Pairs() {
		parts = append(parts, fmt.Sprintf("'%s': '%s'", p.From, p.To))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

/* ────────── word replacement ────────── */

type wordReplacement struct{}

func (wordReplacement) ID() ID       { return WordReplacement }
func (wordReplacement) Name() string { return "Word Replacement Cipher" }
func (wordReplacement) Class() Class { return Word }

// Encode fills p.Words as a side effect; callers keep the same map for Decode.
func (wordReplacement) Encode(text string, p Params) (string, error) {
	if p.Words == nil {
		return "", fmt.Errorf("%w: encode needs a map to record into", ErrMissingReplacementMap)
	}
	words := strings.Split(text, " ")
	for i, w := range words {
		words[i] = p.Words.Assign(w)
	}
	return strings.Join(words, " "), nil
}

func (wordReplacement) Decode(text string, p Params) (string, error) {
	if p.Words == nil {
		return "", ErrMissingReplacementMap
	}
	inv := p.Words.Inverse()
	words := strings.Split(text, " ")
	for i, w := range words {
		if orig, ok := inv[w]; ok {
			words[i] = orig
		}
	}
	return strings.Join(words, " "), nil
}

func (wordReplacement) Describe(p Params) string {
	return fill(wordReplacementTemplate, "{replacement_dict_str}", p.Words.String())
}

/* ────────── token reversals ────────── */

type reverseWordOrder struct{}

func (reverseWordOrder) ID() ID       { return ReverseWordOrder }
func (reverseWordOrder) Name() string { return "Reverse Word Order" }
func (reverseWordOrder) Class() Class { return Word }

// Encode splits on single spaces, so runs of spaces do not survive a round trip.
func (reverseWordOrder) Encode(text string, _ Params) (string, error) {
	words := strings.Split(text, " ")
	slices.Reverse(words)
	return strings.Join(words, " "), nil
}

func (r reverseWordOrder) Decode(text string, p Params) (string, error) {
	return r.Encode(text, p)
}

func (reverseWordOrder) Describe(Params) string { return reverseWordOrderTemplate }

type reverseCharsInWords struct{}

func (reverseCharsInWords) ID() ID       { return ReverseCharsInWords }
func (reverseCharsInWords) Name() string { return "Reverse Characters in Words Cipher" }
func (reverseCharsInWords) Class() Class { return Letter }

func (reverseCharsInWords) Encode(text string, _ Params) (string, error) {
	words := strings.Split(text, " ")
	for i, w := range words {
		words[i] = reverseRunes(w)
	}
	return strings.Join(words, " "), nil
}

func (r reverseCharsInWords) Decode(text string, p Params) (string, error) {
	return r.Encode(text, p)
}

func (reverseCharsInWords) Describe(Params) string { return reverseCharsInWordsTemplate }

func reverseRunes(s string) string {
	rs := []rune(s)
	slices.Reverse(rs)
	return string(rs)
}
