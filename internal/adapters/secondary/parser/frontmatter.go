// Package parser extracts metadata from Mermaid diagram sources. Mermaid
// supports an optional YAML frontmatter block delimited by "---" lines;
// the viewer uses its title for display only. Diagram content is always
// delivered verbatim, frontmatter included.
package parser

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// Frontmatter holds the fields the viewer cares about
type Frontmatter struct {
	Title string `yaml:"title"`
}

// ExtractFrontmatter parses the YAML frontmatter block at the start of a
// Mermaid source, if any. Content without frontmatter, or with a block
// that fails to parse, yields a zero Frontmatter; metadata is best-effort
// and never blocks serving the diagram.
func ExtractFrontmatter(content []byte) Frontmatter {
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return Frontmatter{}
	}

	lines := bytes.Split(content, []byte("\n"))
	endIndex := -1

	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			endIndex = i
			break
		}
	}

	if endIndex == -1 {
		// No closing delimiter
		return Frontmatter{}
	}

	block := bytes.Join(lines[1:endIndex], []byte("\n"))
	if len(bytes.TrimSpace(block)) == 0 {
		return Frontmatter{}
	}

	var fm Frontmatter
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return Frontmatter{}
	}

	return fm
}
