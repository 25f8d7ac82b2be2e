package config

import (
	"bytes"
	"os"
	"strings"
	"text/template"
)

// ExpandEnv expands environment variables in rules-file content using
// Go template syntax, {{.VAR_NAME}}. The $ character stays literal,
// which matters in this file format: mask characters and custom masker
// names may contain it, and rule names sometimes mirror shell-style
// keys like ${DB_PASSWORD}.
//
// Missing variables expand to the empty string. Content that fails to
// parse or execute as a template is returned unchanged, so a rules
// file without any template syntax always passes through.
func ExpandEnv(data []byte) []byte {
	tmpl, err := template.New("rules").Option("missingkey=zero").Parse(string(data))
	if err != nil {
		return data
	}

	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if idx := strings.IndexByte(kv, '='); idx > 0 {
			env[kv[:idx]] = kv[idx+1:]
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, env); err != nil {
		return data
	}
	return buf.Bytes()
}
