// Package detect guesses a file's language from its name or shebang and
// decides whether the C-style comment scanner may touch it.
package detect

import (
	"bytes"
	"path/filepath"
	"strings"
)

type Info struct {
	Name string
}

func FromPathAndContent(p string, data []byte) Info {
	name := detectByPath(p)
	if name != "" {
		if strings.EqualFold(filepath.Ext(p), ".m") && name == "objective-c" && looksLikeMatlab(data) {
			return Info{Name: "matlab"}
		}
		return Info{Name: name}
	}
	if shebang := detectByShebang(data); shebang != "" {
		return Info{Name: shebang}
	}
	return Info{Name: ""}
}

// Eligible reports whether the comment scanner should run on a file of the
// detected language. Unknown languages are allowed; languages known to use
// other comment markers are not, because "//" there is usually code.
func Eligible(info Info) bool {
	name := NormalizeLangName(info.Name)
	if name == "" {
		return true
	}
	if CStyle(info) {
		return true
	}
	_, known := otherLanguages[name]
	return !known
}

// CStyle reports whether the language is known to use // and /* */ comments.
func CStyle(info Info) bool {
	_, ok := cStyleLanguages[NormalizeLangName(info.Name)]
	return ok
}

func detectByPath(p string) string {
	base := filepath.Base(p)
	lowerBase := strings.ToLower(base)
	if lang, ok := basenameLanguages[lowerBase]; ok {
		return lang
	}
	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		return ""
	}
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	stem := strings.TrimSuffix(lowerBase, ext)
	if lang, ok := extensionLanguages[filepath.Ext(stem)]; ok && stem != lowerBase {
		return lang
	}
	return ""
}

func detectByShebang(data []byte) string {
	if len(data) == 0 || !bytes.HasPrefix(data, []byte("#!")) {
		return ""
	}
	end := bytes.IndexByte(data, '\n')
	if end == -1 {
		end = len(data)
	}
	line := strings.ToLower(string(data[:end]))
	// Specific interpreters come before the generic "sh" entry.
	for _, entry := range shebangLanguages {
		if strings.Contains(line, entry.interp) {
			return entry.lang
		}
	}
	return ""
}

func NormalizeLangName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ""
	}
	if canon, ok := langAliases[n]; ok {
		return canon
	}
	return n
}

func MatchesLang(info Info, allow []string) bool {
	if len(allow) == 0 {
		return true
	}
	detected := NormalizeLangName(info.Name)
	if detected == "" {
		return false
	}
	for _, raw := range allow {
		if NormalizeLangName(raw) == detected {
			return true
		}
	}
	return false
}

func KnownLanguage(name string) bool {
	n := NormalizeLangName(name)
	if n == "" {
		return false
	}
	if _, ok := cStyleLanguages[n]; ok {
		return true
	}
	_, ok := otherLanguages[n]
	return ok
}

func CanonicalDetectLangs(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		norm := NormalizeLangName(raw)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

func looksLikeMatlab(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	sample := data
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	sawMatlabKeyword := false
	for _, line := range strings.Split(string(sample), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "%") {
			continue
		}
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "@interface") || strings.HasPrefix(lower, "@implementation") || strings.HasPrefix(lower, "#import") {
			return false
		}
		if strings.HasPrefix(lower, "function") || strings.HasPrefix(lower, "classdef") {
			return true
		}
		if strings.HasPrefix(lower, "properties") || strings.HasPrefix(lower, "methods") {
			sawMatlabKeyword = true
		}
	}
	return sawMatlabKeyword
}

var basenameLanguages = map[string]string{
	"makefile":       "make",
	"gnumakefile":    "make",
	"dockerfile":     "dockerfile",
	"jenkinsfile":    "groovy",
	"gemfile":        "ruby",
	"rakefile":       "ruby",
	"cmakelists.txt": "cmake",
	"tsconfig.json":  "jsonc",
	"jsconfig.json":  "jsonc",
	"settings.json":  "jsonc",
	"go.mod":         "gomod",
}

var extensionLanguages = map[string]string{
	".c":      "c",
	".h":      "c",
	".cc":     "cpp",
	".cpp":    "cpp",
	".cxx":    "cpp",
	".hh":     "cpp",
	".hpp":    "cpp",
	".m":      "objective-c",
	".mm":     "objective-cpp",
	".go":     "go",
	".js":     "javascript",
	".mjs":    "javascript",
	".cjs":    "javascript",
	".jsx":    "javascriptreact",
	".ts":     "typescript",
	".mts":    "typescript",
	".tsx":    "typescriptreact",
	".java":   "java",
	".cs":     "csharp",
	".kt":     "kotlin",
	".kts":    "kotlin",
	".scala":  "scala",
	".groovy": "groovy",
	".gradle": "groovy",
	".swift":  "swift",
	".rs":     "rust",
	".dart":   "dart",
	".php":    "php",
	".proto":  "proto",
	".thrift": "thrift",
	".scss":   "scss",
	".less":   "less",
	".jsonc":  "jsonc",
	".json5":  "jsonc",
	".hcl":    "hcl",
	".tf":     "terraform",
	".zig":    "zig",
	".sol":    "solidity",
	".py":     "python",
	".pyi":    "python",
	".rb":     "ruby",
	".sh":     "shell",
	".bash":   "shell",
	".zsh":    "shell",
	".ps1":    "powershell",
	".sql":    "sql",
	".json":   "json",
	".yaml":   "yaml",
	".yml":    "yaml",
	".toml":   "toml",
	".ini":    "ini",
	".md":     "markdown",
	".txt":    "text",
	".html":   "html",
	".htm":    "html",
	".xml":    "xml",
	".css":    "css",
	".lua":    "lua",
	".hs":     "haskell",
	".ex":     "elixir",
	".exs":    "elixir",
	".erl":    "erlang",
	".clj":    "clojure",
	".lisp":   "common-lisp",
	".r":      "r",
	".pl":     "perl",
	".mk":     "make",
}

var shebangLanguages = []struct {
	interp string
	lang   string
}{
	{"python", "python"},
	{"node", "javascript"},
	{"deno", "typescript"},
	{"ruby", "ruby"},
	{"perl", "perl"},
	{"php", "php"},
	{"bash", "shell"},
	{"zsh", "shell"},
	{"pwsh", "powershell"},
	{"sh", "shell"},
}

var langAliases = map[string]string{
	"c#":     "csharp",
	"cs":     "csharp",
	"c++":    "cpp",
	"cc":     "cpp",
	"hpp":    "cpp",
	"js":     "javascript",
	"mjs":    "javascript",
	"jsx":    "javascriptreact",
	"ts":     "typescript",
	"tsx":    "typescriptreact",
	"kt":     "kotlin",
	"rs":     "rust",
	"golang": "go",
	"rb":     "ruby",
	"py":     "python",
	"bash":   "shell",
	"sh":     "shell",
	"zsh":    "shell",
	"yml":    "yaml",
	"md":     "markdown",
	"tf":     "terraform",
}

var cStyleLanguages = map[string]struct{}{
	"c":               {},
	"cpp":             {},
	"objective-c":     {},
	"objective-cpp":   {},
	"go":              {},
	"javascript":      {},
	"javascriptreact": {},
	"typescript":      {},
	"typescriptreact": {},
	"java":            {},
	"csharp":          {},
	"kotlin":          {},
	"scala":           {},
	"groovy":          {},
	"swift":           {},
	"rust":            {},
	"dart":            {},
	"php":             {},
	"proto":           {},
	"thrift":          {},
	"scss":            {},
	"less":            {},
	"jsonc":           {},
	"hcl":             {},
	"terraform":       {},
	"zig":             {},
	"solidity":        {},
}

var otherLanguages = map[string]struct{}{
	"python":      {},
	"ruby":        {},
	"shell":       {},
	"powershell":  {},
	"perl":        {},
	"sql":         {},
	"json":        {},
	"yaml":        {},
	"toml":        {},
	"ini":         {},
	"markdown":    {},
	"text":        {},
	"html":        {},
	"xml":         {},
	"css":         {},
	"lua":         {},
	"haskell":     {},
	"elixir":      {},
	"erlang":      {},
	"clojure":     {},
	"common-lisp": {},
	"r":           {},
	"make":        {},
	"cmake":       {},
	"dockerfile":  {},
	"gomod":       {},
	"matlab":      {},
}
