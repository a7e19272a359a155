package word

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Placeholders replaced in the generated template.
const (
	PlaceholderDate     = "{{Date}}"
	PlaceholderPackage  = "{{Package}}"
	PlaceholderClientID = "{{ClientID}}"
	PlaceholderCount    = "{{TotalOperations}}"
	PlaceholderDigest   = "{{Digest}}"
	PlaceholderContent  = "{{Content}}"
)

var templateParts = []struct {
	name string
	body string
}{
	{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
	{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
	// some readers refuse a package without it
	{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`},
	{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:rPr><w:b/><w:sz w:val="36"/></w:rPr><w:t>GraphQL Operations Report</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Date: {{Date}}</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Package: {{Package}}</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">OAuth Client ID: {{ClientID}}</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Total Operations: {{TotalOperations}}</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Result Digest: {{Digest}}</w:t></w:r></w:p>
<w:p><w:r><w:rPr><w:rFonts w:ascii="Consolas" w:hAnsi="Consolas"/><w:sz w:val="18"/></w:rPr><w:t xml:space="preserve">{{Content}}</w:t></w:r></w:p>
</w:body>
</w:document>`},
}

// Template returns a minimal .docx package with the report placeholders.
func Template() ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, p := range templateParts {
		part, err := w.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", p.name, err)
		}
		if _, err := part.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
