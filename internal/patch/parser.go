package patch

import "strings"

// Markers holds the three delimiter lines of the block wire format. Marker
// comparison ignores leading/trailing whitespace on the input line.
type Markers struct {
	Search  string
	Divider string
	Replace string
}

// DefaultMarkers returns the conventional conflict-style marker set.
func DefaultMarkers() Markers {
	return Markers{
		Search:  "<<<<<<< SEARCH",
		Divider: "=======",
		Replace: ">>>>>>> REPLACE",
	}
}

// BlockParser extracts EditBlocks from SEARCH/REPLACE markup. It is a pure
// function of the input text plus the final flag; safe for reuse across
// streams.
type BlockParser struct {
	markers Markers
}

// NewBlockParser creates a parser for the given marker set.
func NewBlockParser(m Markers) *BlockParser {
	return &BlockParser{markers: m}
}

// Parse extracts all blocks from text in document order. When final is
// false the text may end mid-block: a block cut off inside its REPLACE
// section is still returned with Partial=true and its NewLines truncated to
// at most len(OldLines), so a caller applying it never consumes more room
// than the located old span provides. A block cut off inside its SEARCH
// section is omitted entirely since its search span cannot be located yet.
//
// Returns NoBlocksFound when final is true and no well-formed block exists.
func (p *BlockParser) Parse(text string, final bool) ([]EditBlock, error) {
	lines := strings.Split(text, "\n")
	var blocks []EditBlock

	i := 0
	for i < len(lines) {
		if !isMarker(lines[i], p.markers.Search) {
			i++
			continue
		}
		i++

		var oldLines []string
		sawDivider := false
		for i < len(lines) {
			if isMarker(lines[i], p.markers.Divider) {
				sawDivider = true
				i++
				break
			}
			oldLines = append(oldLines, lines[i])
			i++
		}
		if !sawDivider {
			// Stream ended inside the SEARCH section. Nothing usable yet.
			break
		}

		var newLines []string
		sawReplace := false
		for i < len(lines) {
			if isMarker(lines[i], p.markers.Replace) {
				sawReplace = true
				i++
				break
			}
			newLines = append(newLines, lines[i])
			i++
		}

		if sawReplace {
			blocks = append(blocks, EditBlock{OldLines: oldLines, NewLines: newLines})
			continue
		}

		// Unterminated REPLACE section: only meaningful for a live stream.
		if !final {
			blocks = append(blocks, EditBlock{
				OldLines: oldLines,
				NewLines: truncateToSafePrefix(newLines, len(oldLines)),
				Partial:  true,
			})
		}
		break
	}

	if len(blocks) == 0 && final {
		return nil, NoBlocksFound()
	}
	return blocks, nil
}

// truncateToSafePrefix caps a growing replacement at the length of the old
// span, so a partial block never applies more new lines than there is room
// for before the next update completes it.
func truncateToSafePrefix(newLines []string, oldLen int) []string {
	if len(newLines) <= oldLen {
		return newLines
	}
	return newLines[:oldLen]
}

// isMarker checks whether a line matches a marker, allowing surrounding
// whitespace.
func isMarker(line, marker string) bool {
	return strings.TrimSpace(line) == marker
}
