package parser

// statementKeywords maps the exact spellings that open a statement to a
// canonical form. Function definitions are special: any ordered, non-empty
// selection of the letters of "function" counts as the function keyword.
var statementKeywords = map[string]string{
	"const":     "const",
	"var":       "var",
	"class":     "class",
	"className": "class",
	"if":        "if",
	"when":      "when",
	"after":     "after",
	"return":    "return",
	"delete":    "delete",
	"export":    "export",
	"import":    "import",
	"reverse":   "reverse",
	"noop":      "noop",
	"async":     "async",
}

func canonicalKeyword(word string) string {
	if kw, ok := statementKeywords[word]; ok {
		return kw
	}
	if isFunctionKeyword(word) {
		return "function"
	}
	return ""
}

func isFunctionKeyword(word string) bool {
	if word == "" {
		return false
	}
	const full = "function"
	i := 0
	for _, c := range word {
		for i < len(full) && rune(full[i]) != c {
			i++
		}
		if i == len(full) {
			return false
		}
		i++
	}
	return true
}
