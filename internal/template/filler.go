package template

import "strings"

// Fill substitutes every mapped token in the document markup. Literal
// occurrences of the escaped token are replaced first; a second pass walks
// the text runs to catch tokens the word processor split across adjacent
// runs. Only text content is altered, so the output stays valid markup.
func Fill(xml string, m *Mapping) string {
	if m == nil {
		return xml
	}
	for _, name := range m.Names() {
		value, _ := m.Get(name)
		xml = replaceLiteral(xml, name, escapeXML(value))
	}
	for _, name := range m.Names() {
		value, _ := m.Get(name)
		xml = replaceAcrossRuns(xml, name, value)
	}
	return xml
}

// replaceLiteral swaps the escaped token form (&amp;NAME&amp;) for the escaped
// value wherever it appears unsplit. Token names match case-insensitively.
func replaceLiteral(xml, name, escapedValue string) string {
	target := strings.ToLower("&amp;" + name + "&amp;")
	lowered := strings.ToLower(xml)

	var b strings.Builder
	for {
		idx := strings.Index(lowered, target)
		if idx < 0 {
			b.WriteString(xml)
			return b.String()
		}
		b.WriteString(xml[:idx])
		b.WriteString(escapedValue)
		xml = xml[idx+len(target):]
		lowered = lowered[idx+len(target):]
	}
}

// textRun is one <w:t> span: the byte range of its content within the
// document plus the raw content itself.
type textRun struct {
	contentStart int
	contentEnd   int
	raw          string
}

// replaceAcrossRuns collapses a token whose text is split across two or more
// adjacent runs into the substituted value. The runs are concatenated for
// matching, the value lands in the first affected run, and the obsolete
// fragments in the following runs are blanked.
func replaceAcrossRuns(xml, name, value string) string {
	token := strings.ToLower("&" + name + "&")
	for {
		runs := scanTextRuns(xml)
		if len(runs) < 2 {
			return xml
		}

		texts := make([]string, len(runs))
		offsets := make([]int, len(runs))
		var concat strings.Builder
		for i, r := range runs {
			offsets[i] = concat.Len()
			texts[i] = unescapeXML(r.raw)
			concat.WriteString(texts[i])
		}
		joined := strings.ToLower(concat.String())

		start, end := findSpanningMatch(joined, token, offsets, texts)
		if start < 0 {
			return xml
		}
		i := runAt(offsets, texts, start)
		j := runAt(offsets, texts, end-1)

		updated := make(map[int]string, j-i+1)
		updated[i] = texts[i][:start-offsets[i]] + value
		for k := i + 1; k < j; k++ {
			updated[k] = ""
		}
		tail := texts[j][end-offsets[j]:]
		if j == i {
			updated[i] = texts[i][:start-offsets[i]] + value + tail
		} else {
			updated[j] = tail
		}

		xml = rebuild(xml, runs, updated)
	}
}

// findSpanningMatch locates the first token occurrence that crosses a run
// boundary. Matches inside a single run are skipped: after the literal pass
// those can only come from substituted values, not from the template.
func findSpanningMatch(joined, token string, offsets []int, texts []string) (int, int) {
	from := 0
	for {
		idx := strings.Index(joined[from:], token)
		if idx < 0 {
			return -1, -1
		}
		start := from + idx
		end := start + len(token)
		if runAt(offsets, texts, start) != runAt(offsets, texts, end-1) {
			return start, end
		}
		from = start + 1
	}
}

func runAt(offsets []int, texts []string, pos int) int {
	for i := len(offsets) - 1; i >= 0; i-- {
		if pos >= offsets[i] && pos < offsets[i]+len(texts[i]) {
			return i
		}
	}
	return -1
}

// scanTextRuns collects every <w:t> content span in document order.
func scanTextRuns(xml string) []textRun {
	var runs []textRun
	pos := 0
	for {
		open := strings.Index(xml[pos:], "<w:t")
		if open < 0 {
			return runs
		}
		open += pos
		after := open + len("<w:t")
		if after >= len(xml) || (xml[after] != '>' && xml[after] != ' ') {
			// Some other element sharing the prefix, e.g. <w:tab/> or <w:tbl>.
			pos = after
			continue
		}
		tagEnd := strings.IndexByte(xml[after:], '>')
		if tagEnd < 0 {
			return runs
		}
		tagEnd += after
		if xml[tagEnd-1] == '/' {
			pos = tagEnd + 1
			continue
		}
		contentStart := tagEnd + 1
		close := strings.Index(xml[contentStart:], "</w:t>")
		if close < 0 {
			return runs
		}
		contentEnd := contentStart + close
		runs = append(runs, textRun{
			contentStart: contentStart,
			contentEnd:   contentEnd,
			raw:          xml[contentStart:contentEnd],
		})
		pos = contentEnd + len("</w:t>")
	}
}

// rebuild reassembles the document with the updated run contents. Untouched
// runs keep their raw bytes.
func rebuild(xml string, runs []textRun, updated map[int]string) string {
	var b strings.Builder
	b.Grow(len(xml))
	prev := 0
	for i, r := range runs {
		b.WriteString(xml[prev:r.contentStart])
		if text, ok := updated[i]; ok {
			b.WriteString(escapeXML(text))
		} else {
			b.WriteString(r.raw)
		}
		prev = r.contentEnd
	}
	b.WriteString(xml[prev:])
	return b.String()
}

var (
	xmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	xmlUnescaper = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
		"&amp;", "&",
	)
)

func escapeXML(s string) string   { return xmlEscaper.Replace(s) }
func unescapeXML(s string) string { return xmlUnescaper.Replace(s) }
