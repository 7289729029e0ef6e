package notifier

import (
	"fmt"
	"strings"

	"TrendSentry/internal/model"
)

// MaxBlockSize is the largest outgoing message in bytes, kept safely
// under the transport's 4096-character message limit.
const MaxBlockSize = 3800

// Header builds the fixed block header: interval, mode, count of
// symbols checked, and the cycle timestamp.
func Header(res *model.ScanResult) string {
	ts := res.FinishedAt.UTC().Format("2006-01-02 15:04 UTC")
	return fmt.Sprintf("📈 Market scan (%s, %s) — %d symbols\n%s\n\n",
		res.Interval, res.Mode, res.SymbolsChecked, ts)
}

// BuildBlocks packs findings into blocks of at most limit bytes. A new
// block starts whenever appending the next finding line would exceed
// the limit, and every block begins with the header. An empty finding
// list yields no blocks.
func BuildBlocks(header string, findings []model.Finding, limit int) []string {
	if len(findings) == 0 {
		return nil
	}

	var blocks []string
	var b strings.Builder
	b.WriteString(header)

	for _, f := range findings {
		if b.Len() > len(header) && b.Len()+len(f.Text)+1 > limit {
			blocks = append(blocks, b.String())
			b.Reset()
			b.WriteString(header)
		}
		b.WriteString(f.Text)
		b.WriteByte('\n')
	}
	if b.Len() > len(header) {
		blocks = append(blocks, b.String())
	}
	return blocks
}
