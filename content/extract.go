package content

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/byte4ever/repofiles/hosting"
)

var (
	htmlCodeBlock = regexp.MustCompile(
		`(?is)<code(?:\s[^>]*)?>(.*?)</code>`,
	)
	fencedCodeBlock = regexp.MustCompile(
		"(?s)```[^\\n`]*\\n(.*?)```",
	)
)

// entities is the fixed set of character references
// decoded in extracted text.
var entities = strings.NewReplacer(
	"&quot;", `"`,
	"&amp;", "&",
	"&apos;", "'",
	"&lt;", "<",
	"&gt;", ">",
	"&#x27;", "'",
)

// ExtractionError reports a document that does not
// hold exactly one code block. It matches
// hosting.ErrContentExtraction.
type ExtractionError struct {
	URL   string
	Found int
}

func (e *ExtractionError) Error() string {
	where := "document"
	if e.URL != "" {
		where = e.URL
	}

	if e.Found == 0 {
		return fmt.Sprintf(
			"%s: no code block in %s",
			hosting.ErrContentExtraction, where,
		)
	}

	return fmt.Sprintf(
		"%s: %d code blocks in %s, want exactly one",
		hosting.ErrContentExtraction, e.Found, where,
	)
}

func (e *ExtractionError) Unwrap() error {
	return hosting.ErrContentExtraction
}

// codeBlock is one pattern match: the byte range of
// the whole block in the document and its inner text.
type codeBlock struct {
	start, end int
	text       string
}

// ExtractCodeBlock returns the entity-decoded text of
// the only code block in doc. Both HTML <code>
// elements and Markdown fences count; a block nested
// inside another one belongs to the outer block. Any
// other count than one fails with *ExtractionError.
func ExtractCodeBlock(doc string) (string, error) {
	var found []codeBlock

	for _, re := range []*regexp.Regexp{
		htmlCodeBlock, fencedCodeBlock,
	} {
		for _, m := range re.FindAllStringSubmatchIndex(doc, -1) {
			found = append(found, codeBlock{
				start: m[0],
				end:   m[1],
				text:  doc[m[2]:m[3]],
			})
		}
	}

	// Outer blocks sort before the blocks they contain.
	slices.SortFunc(found, func(a, b codeBlock) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}

		return cmp.Compare(b.end, a.end)
	})

	var (
		blocks []codeBlock
		reach  int
	)

	for _, blk := range found {
		if len(blocks) > 0 && blk.end <= reach {
			continue
		}

		blocks = append(blocks, blk)
		reach = max(reach, blk.end)
	}

	if len(blocks) != 1 {
		return "", &ExtractionError{Found: len(blocks)}
	}

	return DecodeEntities(blocks[0].text), nil
}

// DecodeEntities decodes &quot; &amp; &apos; &lt; &gt;
// and &#x27; in one pass. Other references are left
// untouched.
func DecodeEntities(s string) string {
	return entities.Replace(s)
}
