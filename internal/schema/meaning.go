package schema

import "strings"

var abbreviations = map[string]string{
	// Common Nouns
	"nm": "name", "dt": "date", "no": "number", "cd": "code",
	"desc": "description", "amt": "amount", "cnt": "count", "qty": "quantity",
	"addr": "address", "tel": "phone", "ph": "phone",
	"pwd": "password", "passwd": "password",
	"img": "image", "url": "url", "zip": "zipcode",
	"msg": "message", "txt": "text", "tit": "title", "subj": "subject",
	"usr": "user", "emp": "employee", "cat": "category",
	"lang": "language", "ctry": "country", "auth": "author",
	"pg": "pages", "pgs": "pages", "rel": "release",

	// Verbs / Status
	"reg": "registered", "mod": "modified", "del": "deleted", "cre": "created",
	"upd": "updated", "yn": "yesno", "stat": "status", "sts": "status",
	"is": "yesno", "flg": "flag",
}

// keywords maps a fragment of a column name to the meaning it implies.
// Order matters: the first match wins.
var keywords = []struct{ fragment, meaning string }{
	{"isbn", "isbn"},
	{"email", "email"}, {"mail", "email"},
	{"phone", "phone"}, {"mobile", "phone"},
	{"address", "address"},
	{"author", "author"},
	{"language", "language"},
	{"countr", "country"},
	{"city", "city"},
	{"page", "pages"},
	{"price", "price"}, {"cost", "price"},
	{"release", "date"}, {"date", "date"}, {"time", "date"},
	{"description", "description"},
	{"title", "title"},
	{"name", "name"},
}

// AnalyzeMeaning guesses what a column holds from its name, so generated
// values look plausible ("releaseDate" gets a date string, "authors" names).
func AnalyzeMeaning(colName string) string {
	// 1. Abbreviation expansion (snake_case and camelCase)
	n := strings.ToLower(splitCamel(colName))
	parts := strings.Split(n, "_")
	var decodedParts []string
	for _, part := range parts {
		if full, ok := abbreviations[part]; ok {
			decodedParts = append(decodedParts, full)
		} else {
			decodedParts = append(decodedParts, part)
		}
	}
	decoded := strings.Join(decodedParts, " ")

	// 2. Keyword priority over the expanded name
	for _, k := range keywords {
		if strings.Contains(decoded, k.fragment) {
			return k.meaning
		}
	}
	return decoded
}

func splitCamel(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := s[i-1]
			if prev >= 'a' && prev <= 'z' {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
